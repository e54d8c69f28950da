package model

import (
	"context"
	"testing"
	"time"

	"dealership-service/internal/store"
)

func newAppointmentModel() *AppointmentModel {
	return NewAppointmentModel(store.NewMemoryCollection[Appointment]())
}

func TestAppointmentCreateForcesScheduled(t *testing.T) {
	m := newAppointmentModel()

	appt := Appointment{Type: AppointmentTypeTestDrive, AppointmentDate: "2030-05-01", AppointmentTime: "14:00", Status: "completed"}
	if err := m.Create(context.Background(), &appt); err != nil {
		t.Fatalf("create: %v", err)
	}

	if appt.Status != AppointmentStatusScheduled {
		t.Errorf("status = %q, want scheduled regardless of input", appt.Status)
	}
	if appt.StatusUpdatedAt != nil {
		t.Error("status change time stamped at creation")
	}
}

func TestAppointmentFindUpcoming(t *testing.T) {
	m := newAppointmentModel()
	ctx := context.Background()

	today := time.Now().Format("2006-01-02")
	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	past := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	mk := func(date string) Appointment {
		a := Appointment{Type: AppointmentTypeService, AppointmentDate: date, AppointmentTime: "10:00"}
		if err := m.Create(ctx, &a); err != nil {
			t.Fatalf("create: %v", err)
		}
		return a
	}

	mk(past)
	mk(today)
	mk(future)
	cancelled := mk(future)
	if _, err := m.UpdateStatus(ctx, cancelled.ID, AppointmentStatusCancelled); err != nil {
		t.Fatalf("update status: %v", err)
	}

	upcoming, err := m.FindUpcoming(ctx)
	if err != nil {
		t.Fatalf("find upcoming: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("upcoming = %d, want 2 (today and future, not past or cancelled)", len(upcoming))
	}
	for _, a := range upcoming {
		if a.AppointmentDate < today {
			t.Errorf("past appointment %s in upcoming set", a.AppointmentDate)
		}
		if a.Status == AppointmentStatusCancelled {
			t.Error("cancelled appointment in upcoming set")
		}
	}
}

func TestAppointmentQueries(t *testing.T) {
	m := newAppointmentModel()
	ctx := context.Background()

	uid := "u1"
	appts := []Appointment{
		{UserID: &uid, Type: AppointmentTypeTestDrive, AppointmentDate: "2030-06-01", AppointmentTime: "11:00"},
		{UserID: &uid, Type: AppointmentTypeService, AppointmentDate: "2030-06-02", AppointmentTime: "12:00"},
		{Type: AppointmentTypeService, AppointmentDate: "2030-06-02", AppointmentTime: "13:00"},
	}
	for _, a := range appts {
		a := a
		if err := m.Create(ctx, &a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	byUser, err := m.FindByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("by user = %d, want 2", len(byUser))
	}

	byDate, err := m.FindByDate(ctx, "2030-06-02")
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if len(byDate) != 2 {
		t.Errorf("by date = %d, want 2", len(byDate))
	}

	byType, err := m.FindByType(ctx, AppointmentTypeTestDrive)
	if err != nil {
		t.Fatalf("by type: %v", err)
	}
	if len(byType) != 1 {
		t.Errorf("by type = %d, want 1", len(byType))
	}
}

func TestAppointmentUpdateStatusStamps(t *testing.T) {
	m := newAppointmentModel()
	ctx := context.Background()

	appt := Appointment{Type: AppointmentTypeConsultation, AppointmentDate: "2030-07-01", AppointmentTime: "09:00"}
	if err := m.Create(ctx, &appt); err != nil {
		t.Fatalf("create: %v", err)
	}

	matched, err := m.UpdateStatus(ctx, appt.ID, AppointmentStatusConfirmed)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if matched != 1 {
		t.Fatalf("matched = %d", matched)
	}

	stored, _ := m.FindByID(ctx, appt.ID)
	if stored.Status != AppointmentStatusConfirmed {
		t.Errorf("status = %q", stored.Status)
	}
	if stored.StatusUpdatedAt == nil {
		t.Error("status change time not stamped")
	}
}

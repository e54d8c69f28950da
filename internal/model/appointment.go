package model

import (
	"context"
	"time"

	"dealership-service/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment status values
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// Well-known appointment types; callers may submit others.
const (
	AppointmentTypeTestDrive    = "test-drive"
	AppointmentTypeService      = "service"
	AppointmentTypeConsultation = "consultation"
)

// Appointment represents a booked visit. UserID is nil for guest
// bookings; CarID and ServiceID are optional and type-dependent. Dates
// are kept as ISO "2006-01-02" strings, times as "15:04".
type Appointment struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	UserID          *string    `json:"userId" gorm:"index"`
	Type            string     `json:"type" gorm:"index"`
	AppointmentDate string     `json:"appointmentDate" gorm:"index"`
	AppointmentTime string     `json:"appointmentTime"`
	CarID           *string    `json:"carId,omitempty"`
	ServiceID       *string    `json:"serviceId,omitempty"`
	Status          string     `json:"status" gorm:"index"`
	StatusUpdatedAt *time.Time `json:"statusUpdatedAt,omitempty"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns the store id
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AppointmentModel wraps the appointments collection
type AppointmentModel struct {
	col store.Collection[Appointment]
}

// NewAppointmentModel creates an appointment model bound to the given collection
func NewAppointmentModel(col store.Collection[Appointment]) *AppointmentModel {
	return &AppointmentModel{col: col}
}

// Create forces the initial "scheduled" status
func (m *AppointmentModel) Create(ctx context.Context, appt *Appointment) error {
	appt.Status = AppointmentStatusScheduled
	appt.StatusUpdatedAt = nil
	return m.col.InsertOne(ctx, appt)
}

// FindAll returns every appointment
func (m *AppointmentModel) FindAll(ctx context.Context) ([]Appointment, error) {
	return m.col.FindAll(ctx, store.Filter{})
}

// FindByID returns nil when no appointment matches
func (m *AppointmentModel) FindByID(ctx context.Context, id string) (*Appointment, error) {
	return m.col.FindByID(ctx, id)
}

// FindByUser returns the appointments booked by the given user
func (m *AppointmentModel) FindByUser(ctx context.Context, userID string) ([]Appointment, error) {
	return m.col.FindAll(ctx, store.Filter{"user_id": userID})
}

// FindByDate returns the appointments on the given ISO date
func (m *AppointmentModel) FindByDate(ctx context.Context, date string) ([]Appointment, error) {
	return m.col.FindAll(ctx, store.Filter{"appointment_date": date})
}

// FindByType returns the appointments of the given type
func (m *AppointmentModel) FindByType(ctx context.Context, apptType string) ([]Appointment, error) {
	return m.col.FindAll(ctx, store.Filter{"type": apptType})
}

// FindUpcoming returns non-cancelled appointments from today onward.
// ISO dates compare lexicographically, so the range check runs in
// memory over the store result.
func (m *AppointmentModel) FindUpcoming(ctx context.Context) ([]Appointment, error) {
	appts, err := m.col.FindAll(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	out := appts[:0]
	for _, appt := range appts {
		if appt.AppointmentDate >= today && appt.Status != AppointmentStatusCancelled {
			out = append(out, appt)
		}
	}
	return out, nil
}

// Update applies a partial document update
func (m *AppointmentModel) Update(ctx context.Context, id string, doc map[string]any) (int64, error) {
	patch := store.NormalizePatch[Appointment](doc, "createdAt", "statusUpdatedAt")
	return m.col.UpdateByID(ctx, id, patch)
}

// UpdateStatus changes the status and stamps the change time
func (m *AppointmentModel) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	return m.col.UpdateByID(ctx, id, store.Patch{
		"status":            status,
		"status_updated_at": time.Now(),
	})
}

// Delete removes the appointment and reports the deleted count
func (m *AppointmentModel) Delete(ctx context.Context, id string) (int64, error) {
	return m.col.DeleteByID(ctx, id)
}

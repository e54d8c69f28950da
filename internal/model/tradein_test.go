package model

import (
	"context"
	"regexp"
	"testing"

	"dealership-service/internal/store"
)

var evaluationNumberPattern = regexp.MustCompile(`^EVAL-\d{6}-\d{3}$`)

func newTradeInModel() *TradeInModel {
	return NewTradeInModel(store.NewMemoryCollection[TradeIn](), nil)
}

func TestTradeInCreateDefaults(t *testing.T) {
	m := newTradeInModel()

	tr := TradeIn{CarBrand: "Lada", CarModel: "Granta", CarYear: 2015, Mileage: 90000, Status: "approved"}
	if err := m.Create(context.Background(), &tr); err != nil {
		t.Fatalf("create: %v", err)
	}

	if !evaluationNumberPattern.MatchString(tr.EvaluationNumber) {
		t.Errorf("evaluation number %q does not match the generated format", tr.EvaluationNumber)
	}
	if tr.Status != TradeInStatusPending {
		t.Errorf("status = %q, want pending regardless of input", tr.Status)
	}
	if tr.EvaluatedAt != nil {
		t.Error("evaluation time stamped at creation")
	}
	if tr.UserID != nil {
		t.Error("guest submission should keep a nil user reference")
	}
}

func TestTradeInStatusStampsOnlyWhenEvaluated(t *testing.T) {
	m := newTradeInModel()
	ctx := context.Background()

	tr := TradeIn{CarBrand: "Lada", CarModel: "Granta", CarYear: 2015}
	if err := m.Create(ctx, &tr); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := m.UpdateStatus(ctx, tr.ID, TradeInStatusApproved); err != nil {
		t.Fatalf("update status: %v", err)
	}
	stored, _ := m.FindByID(ctx, tr.ID)
	if stored.EvaluatedAt != nil {
		t.Error("evaluation time stamped on a non-evaluated transition")
	}

	if _, err := m.UpdateStatus(ctx, tr.ID, TradeInStatusEvaluated); err != nil {
		t.Fatalf("update status: %v", err)
	}
	stored, _ = m.FindByID(ctx, tr.ID)
	if stored.EvaluatedAt == nil {
		t.Error("evaluation time not stamped on the evaluated transition")
	}
}

func TestTradeInEvaluate(t *testing.T) {
	m := newTradeInModel()
	ctx := context.Background()

	tr := TradeIn{CarBrand: "Toyota", CarModel: "Camry", CarYear: 2018, Mileage: 45000}
	if err := m.Create(ctx, &tr); err != nil {
		t.Fatalf("create: %v", err)
	}

	matched, err := m.Evaluate(ctx, tr.ID, 1350000)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if matched != 1 {
		t.Fatalf("matched = %d", matched)
	}

	stored, _ := m.FindByID(ctx, tr.ID)
	if stored.EstimatedValue != 1350000 {
		t.Errorf("estimated value = %v", stored.EstimatedValue)
	}
	if stored.Status != TradeInStatusEvaluated {
		t.Errorf("status = %q", stored.Status)
	}
	if stored.EvaluatedAt == nil {
		t.Error("evaluation time not stamped")
	}

	if matched, _ := m.Evaluate(ctx, "no-such-id", 100); matched != 0 {
		t.Errorf("matched = %d for unknown id", matched)
	}
}

func TestTradeInUpdateProtectsGeneratedFields(t *testing.T) {
	m := newTradeInModel()
	ctx := context.Background()

	tr := TradeIn{CarBrand: "Kia", CarModel: "Rio", CarYear: 2019}
	if err := m.Create(ctx, &tr); err != nil {
		t.Fatalf("create: %v", err)
	}
	original := tr.EvaluationNumber

	if _, err := m.Update(ctx, tr.ID, map[string]any{
		"evaluationNumber": "EVAL-000000-000",
		"condition":        "good",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := m.FindByID(ctx, tr.ID)
	if stored.EvaluationNumber != original {
		t.Errorf("evaluation number changed by update: %q", stored.EvaluationNumber)
	}
	if stored.Condition != "good" {
		t.Errorf("condition = %q", stored.Condition)
	}
}

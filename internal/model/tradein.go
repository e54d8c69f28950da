package model

import (
	"context"
	"time"

	"dealership-service/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TradeIn status values
const (
	TradeInStatusPending   = "pending"
	TradeInStatusEvaluated = "evaluated"
	TradeInStatusApproved  = "approved"
	TradeInStatusCompleted = "completed"
)

// TradeIn represents a trade-in evaluation request. UserID is nil for
// guest submissions. EvaluatedAt is set only when an evaluation update
// occurs.
type TradeIn struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	UserID            *string    `json:"userId" gorm:"index"`
	CarBrand          string     `json:"carBrand"`
	CarModel          string     `json:"carModel"`
	CarYear           int        `json:"carYear"`
	Mileage           int        `json:"mileage"`
	Condition         string     `json:"condition"`
	HasAccidents      bool       `json:"hasAccidents"`
	HasModifications  bool       `json:"hasModifications"`
	HasServiceHistory bool       `json:"hasServiceHistory"`
	EstimatedValue    float64    `json:"estimatedValue"`
	EvaluationNumber  string     `json:"evaluationNumber" gorm:"uniqueIndex"`
	Status            string     `json:"status" gorm:"index"`
	EvaluatedAt       *time.Time `json:"evaluatedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns the store id
func (t *TradeIn) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TradeInModel wraps the trade-in collection
type TradeInModel struct {
	col    store.Collection[TradeIn]
	number NumberGenerator
}

// NewTradeInModel creates a trade-in model bound to the given
// collection. A nil generator falls back to TimestampNumber.
func NewTradeInModel(col store.Collection[TradeIn], number NumberGenerator) *TradeInModel {
	if number == nil {
		number = TimestampNumber
	}
	return &TradeInModel{col: col, number: number}
}

// Create injects the generated evaluation number and the initial status
func (m *TradeInModel) Create(ctx context.Context, tradeIn *TradeIn) error {
	tradeIn.EvaluationNumber = m.number("EVAL", 3)
	tradeIn.Status = TradeInStatusPending
	tradeIn.EvaluatedAt = nil
	return m.col.InsertOne(ctx, tradeIn)
}

// FindAll returns every trade-in request
func (m *TradeInModel) FindAll(ctx context.Context) ([]TradeIn, error) {
	return m.col.FindAll(ctx, store.Filter{})
}

// FindByID returns nil when no request matches
func (m *TradeInModel) FindByID(ctx context.Context, id string) (*TradeIn, error) {
	return m.col.FindByID(ctx, id)
}

// FindByUser returns the requests submitted by the given user
func (m *TradeInModel) FindByUser(ctx context.Context, userID string) ([]TradeIn, error) {
	return m.col.FindAll(ctx, store.Filter{"user_id": userID})
}

// FindByStatus returns the requests in the given status
func (m *TradeInModel) FindByStatus(ctx context.Context, status string) ([]TradeIn, error) {
	return m.col.FindAll(ctx, store.Filter{"status": status})
}

// Update applies a partial document update, keeping the generated
// number and creation time immutable
func (m *TradeInModel) Update(ctx context.Context, id string, doc map[string]any) (int64, error) {
	patch := store.NormalizePatch[TradeIn](doc, "createdAt", "evaluationNumber", "evaluatedAt")
	return m.col.UpdateByID(ctx, id, patch)
}

// UpdateStatus changes the status. The evaluation time is stamped only
// when the request moves to the evaluated status.
func (m *TradeInModel) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	patch := store.Patch{"status": status}
	if status == TradeInStatusEvaluated {
		patch["evaluated_at"] = time.Now()
	}
	return m.col.UpdateByID(ctx, id, patch)
}

// Evaluate records the estimated value, moves the request to the
// evaluated status and stamps the evaluation time
func (m *TradeInModel) Evaluate(ctx context.Context, id string, estimatedValue float64) (int64, error) {
	return m.col.UpdateByID(ctx, id, store.Patch{
		"estimated_value": estimatedValue,
		"status":          TradeInStatusEvaluated,
		"evaluated_at":    time.Now(),
	})
}

// Delete removes the request and reports the deleted count
func (m *TradeInModel) Delete(ctx context.Context, id string) (int64, error) {
	return m.col.DeleteByID(ctx, id)
}

package model

import (
	"context"
	"time"

	"dealership-service/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Insurance status values
const (
	InsuranceStatusPending   = "pending"
	InsuranceStatusActive    = "active"
	InsuranceStatusExpired   = "expired"
	InsuranceStatusCancelled = "cancelled"
)

// Insurance policy types
const (
	InsuranceTypeKasko = "kasko"
	InsuranceTypeOsago = "osago"
)

// Insurance represents a policy. UserID is nil for guest submissions.
type Insurance struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           *string    `json:"userId" gorm:"index"`
	Type             string     `json:"type" gorm:"index"`
	InsuranceCompany string     `json:"insuranceCompany"`
	Premium          float64    `json:"premium"`
	Coverage         float64    `json:"coverage"`
	StartDate        string     `json:"startDate"`
	EndDate          string     `json:"endDate"`
	PolicyNumber     string     `json:"policyNumber" gorm:"uniqueIndex"`
	Status           string     `json:"status" gorm:"index"`
	StatusUpdatedAt  *time.Time `json:"statusUpdatedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns the store id
func (i *Insurance) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// InsuranceModel wraps the insurance collection
type InsuranceModel struct {
	col    store.Collection[Insurance]
	number NumberGenerator
}

// NewInsuranceModel creates an insurance model bound to the given
// collection. A nil generator falls back to TimestampNumber.
func NewInsuranceModel(col store.Collection[Insurance], number NumberGenerator) *InsuranceModel {
	if number == nil {
		number = TimestampNumber
	}
	return &InsuranceModel{col: col, number: number}
}

// Create injects the generated policy number and the initial status
func (m *InsuranceModel) Create(ctx context.Context, policy *Insurance) error {
	policy.PolicyNumber = m.number("POL", 4)
	policy.Status = InsuranceStatusPending
	policy.StatusUpdatedAt = nil
	return m.col.InsertOne(ctx, policy)
}

// FindAll returns every policy
func (m *InsuranceModel) FindAll(ctx context.Context) ([]Insurance, error) {
	return m.col.FindAll(ctx, store.Filter{})
}

// FindByID returns nil when no policy matches
func (m *InsuranceModel) FindByID(ctx context.Context, id string) (*Insurance, error) {
	return m.col.FindByID(ctx, id)
}

// FindByUser returns the policies held by the given user
func (m *InsuranceModel) FindByUser(ctx context.Context, userID string) ([]Insurance, error) {
	return m.col.FindAll(ctx, store.Filter{"user_id": userID})
}

// FindByStatus returns the policies in the given status
func (m *InsuranceModel) FindByStatus(ctx context.Context, status string) ([]Insurance, error) {
	return m.col.FindAll(ctx, store.Filter{"status": status})
}

// Update applies a partial document update, keeping the generated
// number and creation time immutable
func (m *InsuranceModel) Update(ctx context.Context, id string, doc map[string]any) (int64, error) {
	patch := store.NormalizePatch[Insurance](doc, "createdAt", "policyNumber", "statusUpdatedAt")
	return m.col.UpdateByID(ctx, id, patch)
}

// UpdateStatus changes the status and stamps the change time
func (m *InsuranceModel) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	return m.col.UpdateByID(ctx, id, store.Patch{
		"status":            status,
		"status_updated_at": time.Now(),
	})
}

// Delete removes the policy and reports the deleted count
func (m *InsuranceModel) Delete(ctx context.Context, id string) (int64, error) {
	return m.col.DeleteByID(ctx, id)
}

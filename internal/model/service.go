package model

import (
	"context"
	"time"

	"dealership-service/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a catalog entity: no generated reference number and no
// status lifecycle beyond active/inactive.
type Service struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Category    string    `json:"category" gorm:"index"`
	Price       float64   `json:"price"`
	Duration    string    `json:"duration"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the store id
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ServiceModel wraps the services collection
type ServiceModel struct {
	col store.Collection[Service]
}

// NewServiceModel creates a service model bound to the given collection
func NewServiceModel(col store.Collection[Service]) *ServiceModel {
	return &ServiceModel{col: col}
}

// FindAll returns services, optionally narrowed by category
func (m *ServiceModel) FindAll(ctx context.Context, category string) ([]Service, error) {
	filter := store.Filter{}
	if category != "" {
		filter["category"] = category
	}
	return m.col.FindAll(ctx, filter)
}

// FindByID returns nil when no service matches
func (m *ServiceModel) FindByID(ctx context.Context, id string) (*Service, error) {
	return m.col.FindByID(ctx, id)
}

// Create inserts the service as supplied
func (m *ServiceModel) Create(ctx context.Context, svc *Service) error {
	return m.col.InsertOne(ctx, svc)
}

// Update applies a partial document update
func (m *ServiceModel) Update(ctx context.Context, id string, doc map[string]any) (int64, error) {
	patch := store.NormalizePatch[Service](doc, "createdAt")
	return m.col.UpdateByID(ctx, id, patch)
}

// Delete removes the service and reports the deleted count
func (m *ServiceModel) Delete(ctx context.Context, id string) (int64, error) {
	return m.col.DeleteByID(ctx, id)
}

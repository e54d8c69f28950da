package model

import (
	"context"
	"time"

	"dealership-service/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status values
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order represents a purchase order. UserID is nil for guest orders.
// OrderNumber and the initial status are set once at creation and never
// regenerated.
type Order struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	CarID           string     `json:"carId" gorm:"index"`
	UserID          *string    `json:"userId" gorm:"index"`
	TotalAmount     float64    `json:"totalAmount"`
	PaymentMethod   string     `json:"paymentMethod"`
	DeliveryAddress string     `json:"deliveryAddress"`
	OrderNumber     string     `json:"orderNumber" gorm:"uniqueIndex"`
	Status          string     `json:"status" gorm:"index"`
	StatusUpdatedAt *time.Time `json:"statusUpdatedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns the store id
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderStatistics is the aggregate produced by a full-collection scan.
type OrderStatistics struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	MinAmount    float64        `json:"minAmount"`
	MaxAmount    float64        `json:"maxAmount"`
	AvgAmount    float64        `json:"avgAmount"`
	TotalRevenue float64        `json:"totalRevenue"`
}

// OrderModel wraps the orders collection
type OrderModel struct {
	col    store.Collection[Order]
	number NumberGenerator
}

// NewOrderModel creates an order model bound to the given collection.
// A nil generator falls back to TimestampNumber.
func NewOrderModel(col store.Collection[Order], number NumberGenerator) *OrderModel {
	if number == nil {
		number = TimestampNumber
	}
	return &OrderModel{col: col, number: number}
}

// Create injects the generated order number and the initial status
func (m *OrderModel) Create(ctx context.Context, order *Order) error {
	order.OrderNumber = m.number("ORD", 3)
	order.Status = OrderStatusPending
	order.StatusUpdatedAt = nil
	return m.col.InsertOne(ctx, order)
}

// FindAll returns every order
func (m *OrderModel) FindAll(ctx context.Context) ([]Order, error) {
	return m.col.FindAll(ctx, store.Filter{})
}

// FindByID returns nil when no order matches
func (m *OrderModel) FindByID(ctx context.Context, id string) (*Order, error) {
	return m.col.FindByID(ctx, id)
}

// FindByUser returns the orders placed by the given user
func (m *OrderModel) FindByUser(ctx context.Context, userID string) ([]Order, error) {
	return m.col.FindAll(ctx, store.Filter{"user_id": userID})
}

// FindByStatus returns the orders in the given status
func (m *OrderModel) FindByStatus(ctx context.Context, status string) ([]Order, error) {
	return m.col.FindAll(ctx, store.Filter{"status": status})
}

// Update applies a partial document update, keeping the generated
// number and creation time immutable
func (m *OrderModel) Update(ctx context.Context, id string, doc map[string]any) (int64, error) {
	patch := store.NormalizePatch[Order](doc, "createdAt", "orderNumber", "statusUpdatedAt")
	return m.col.UpdateByID(ctx, id, patch)
}

// UpdateStatus changes the status and stamps the change time
func (m *OrderModel) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	return m.col.UpdateByID(ctx, id, store.Patch{
		"status":            status,
		"status_updated_at": time.Now(),
	})
}

// Delete removes the order and reports the deleted count
func (m *OrderModel) Delete(ctx context.Context, id string) (int64, error) {
	return m.col.DeleteByID(ctx, id)
}

// Statistics scans the full collection. O(n); acceptable while volume
// stays small.
func (m *OrderModel) Statistics(ctx context.Context) (*OrderStatistics, error) {
	orders, err := m.col.FindAll(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	stats := &OrderStatistics{
		Total:    len(orders),
		ByStatus: make(map[string]int),
	}

	var sum float64
	for i, order := range orders {
		stats.ByStatus[order.Status]++
		sum += order.TotalAmount
		if order.Status == OrderStatusCompleted {
			stats.TotalRevenue += order.TotalAmount
		}
		if i == 0 || order.TotalAmount < stats.MinAmount {
			stats.MinAmount = order.TotalAmount
		}
		if order.TotalAmount > stats.MaxAmount {
			stats.MaxAmount = order.TotalAmount
		}
	}
	if len(orders) > 0 {
		stats.AvgAmount = sum / float64(len(orders))
	}
	return stats, nil
}

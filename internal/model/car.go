package model

import (
	"context"
	"sort"
	"strings"

	"dealership-service/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"time"
)

// Car status values
const (
	CarStatusAvailable = "available"
	CarStatusReserved  = "reserved"
	CarStatusSold      = "sold"
)

// Car represents a vehicle in the dealership catalog
type Car struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Brand        string     `json:"brand" gorm:"index"`
	Model        string     `json:"model"`
	Year         int        `json:"year"`
	Price        float64    `json:"price"`
	Mileage      int        `json:"mileage"`
	FuelType     string     `json:"fuelType"`
	Transmission string     `json:"transmission"`
	BodyType     string     `json:"bodyType"`
	EngineVolume float64    `json:"engineVolume"`
	Power        int        `json:"power"`
	Color        string     `json:"color"`
	VIN          string     `json:"vin"`
	Status       string     `json:"status,omitempty"`
	Images       StringList `json:"images" gorm:"type:text"`
	Features     StringList `json:"features" gorm:"type:text"`
	Description  string     `json:"description"`
	IsNew        bool       `json:"isNew"`
	IsHit        bool       `json:"isHit"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns the store id
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CarQuery carries the supported catalog filters. Exact-match fields are
// pushed to the store; partial matches, price range and sorting run in
// memory after the store query.
type CarQuery struct {
	Brand        string
	Model        string
	Year         int
	FuelType     string
	Transmission string
	BodyType     string
	Status       string
	MinPrice     float64
	MaxPrice     float64
	SortBy       string
	SortOrder    string
}

// CarStatistics is the aggregate produced by a full-collection scan.
type CarStatistics struct {
	Total     int            `json:"total"`
	Available int            `json:"available"`
	Reserved  int            `json:"reserved"`
	Sold      int            `json:"sold"`
	ByBrand   map[string]int `json:"byBrand"`
	MinPrice  float64        `json:"minPrice"`
	MaxPrice  float64        `json:"maxPrice"`
	AvgPrice  float64        `json:"avgPrice"`
}

// CarModel wraps the cars collection
type CarModel struct {
	col store.Collection[Car]
}

// NewCarModel creates a car model bound to the given collection
func NewCarModel(col store.Collection[Car]) *CarModel {
	return &CarModel{col: col}
}

// FindAll returns the cars matching the query, sorted when requested
func (m *CarModel) FindAll(ctx context.Context, q CarQuery) ([]Car, error) {
	filter := store.Filter{}
	if q.Year != 0 {
		filter["year"] = q.Year
	}
	if q.FuelType != "" {
		filter["fuel_type"] = q.FuelType
	}
	if q.Transmission != "" {
		filter["transmission"] = q.Transmission
	}
	if q.BodyType != "" {
		filter["body_type"] = q.BodyType
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	cars, err := m.col.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := cars[:0]
	for _, car := range cars {
		if q.Brand != "" && !containsFold(car.Brand, q.Brand) {
			continue
		}
		if q.Model != "" && !containsFold(car.Model, q.Model) {
			continue
		}
		if q.MinPrice > 0 && car.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && car.Price > q.MaxPrice {
			continue
		}
		out = append(out, car)
	}

	if q.SortBy != "" {
		sortCars(out, q.SortBy, q.SortOrder == "desc")
	}
	return out, nil
}

// FindByID returns nil when no car matches
func (m *CarModel) FindByID(ctx context.Context, id string) (*Car, error) {
	return m.col.FindByID(ctx, id)
}

// FindAvailable returns cars with the "available" status
func (m *CarModel) FindAvailable(ctx context.Context) ([]Car, error) {
	return m.col.FindAll(ctx, store.Filter{"status": CarStatusAvailable})
}

// FindByBrand matches the brand case-insensitively
func (m *CarModel) FindByBrand(ctx context.Context, brand string) ([]Car, error) {
	cars, err := m.col.FindAll(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	out := cars[:0]
	for _, car := range cars {
		if strings.EqualFold(car.Brand, brand) {
			out = append(out, car)
		}
	}
	return out, nil
}

// Create inserts the car as supplied. Cars carry no generated reference
// number and no forced status; the caller-supplied status is kept as-is.
func (m *CarModel) Create(ctx context.Context, car *Car) error {
	return m.col.InsertOne(ctx, car)
}

// Update applies a partial document update and reports the matched count
func (m *CarModel) Update(ctx context.Context, id string, doc map[string]any) (int64, error) {
	patch := store.NormalizePatch[Car](doc, "createdAt")
	return m.col.UpdateByID(ctx, id, patch)
}

// Delete removes the car and reports the deleted count
func (m *CarModel) Delete(ctx context.Context, id string) (int64, error) {
	return m.col.DeleteByID(ctx, id)
}

// Statistics scans the full collection. O(n); acceptable while the
// catalog stays small.
func (m *CarModel) Statistics(ctx context.Context) (*CarStatistics, error) {
	cars, err := m.col.FindAll(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	stats := &CarStatistics{
		Total:   len(cars),
		ByBrand: make(map[string]int),
	}

	var sum float64
	for i, car := range cars {
		switch car.Status {
		case CarStatusAvailable:
			stats.Available++
		case CarStatusReserved:
			stats.Reserved++
		case CarStatusSold:
			stats.Sold++
		}
		stats.ByBrand[car.Brand]++

		sum += car.Price
		if i == 0 || car.Price < stats.MinPrice {
			stats.MinPrice = car.Price
		}
		if car.Price > stats.MaxPrice {
			stats.MaxPrice = car.Price
		}
	}
	if len(cars) > 0 {
		stats.AvgPrice = sum / float64(len(cars))
	}
	return stats, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortCars orders cars by an arbitrary JSON field name
func sortCars(cars []Car, field string, desc bool) {
	sort.SliceStable(cars, func(i, j int) bool {
		less := lessByField(&cars[i], &cars[j], field)
		if desc {
			return lessByField(&cars[j], &cars[i], field)
		}
		return less
	})
}

func lessByField(a, b *Car, field string) bool {
	av, ok := store.JSONFieldValue(a, field)
	if !ok {
		return false
	}
	bv, _ := store.JSONFieldValue(b, field)

	switch x := av.(type) {
	case string:
		y, _ := bv.(string)
		return x < y
	case int:
		y, _ := bv.(int)
		return x < y
	case float64:
		y, _ := bv.(float64)
		return x < y
	case bool:
		y, _ := bv.(bool)
		return !x && y
	case time.Time:
		y, _ := bv.(time.Time)
		return x.Before(y)
	default:
		return false
	}
}

package store

import (
	"testing"
	"time"
)

type labels []string

type widget struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    *string   `json:"userId"`
	VIN       string    `json:"vin"`
	IsNew     bool      `json:"isNew"`
	Secret    string    `json:"-"`
	Renamed   string    `json:"displayName" gorm:"column:label"`
	Price     float64   `json:"price"`
	Tags      labels    `json:"tags" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
}

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"ID":        "id",
		"UserID":    "user_id",
		"VIN":       "vin",
		"IsNew":     "is_new",
		"Brand":     "brand",
		"FuelType":  "fuel_type",
		"CreatedAt": "created_at",
	}
	for in, want := range cases {
		if got := toSnake(in); got != want {
			t.Errorf("toSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePatch(t *testing.T) {
	doc := map[string]any{
		"id":          "evil-id",
		"userId":      "u1",
		"vin":         "XYZ",
		"isNew":       true,
		"displayName": "hello",
		"price":       9.5,
		"createdAt":   "2020-01-01",
		"unknown":     "dropped",
	}

	patch := NormalizePatch[widget](doc, "createdAt")

	if _, ok := patch["id"]; ok {
		t.Error("id must never be patchable")
	}
	if _, ok := patch["created_at"]; ok {
		t.Error("protected createdAt leaked into patch")
	}
	if _, ok := patch["unknown"]; ok {
		t.Error("unknown field leaked into patch")
	}
	if got := patch["user_id"]; got != "u1" {
		t.Errorf("user_id = %v, want u1", got)
	}
	if got := patch["vin"]; got != "XYZ" {
		t.Errorf("vin = %v, want XYZ", got)
	}
	if got := patch["label"]; got != "hello" {
		t.Errorf("gorm column override ignored: label = %v", got)
	}
	if got := patch["is_new"]; got != true {
		t.Errorf("is_new = %v, want true", got)
	}
}

func TestNormalizePatchRebuildsSliceType(t *testing.T) {
	// Arrays in a client document decode to []any. The patch must carry
	// the field's declared slice type, or the column's Valuer never runs
	// and the store receives a value it cannot write.
	patch := NormalizePatch[widget](map[string]any{"tags": []any{"a", "b"}})

	got, ok := patch["tags"].(labels)
	if !ok {
		t.Fatalf("tags patch value is %T, want labels", patch["tags"])
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("tags = %v", got)
	}

	empty := NormalizePatch[widget](map[string]any{"tags": []any{}})
	if got, ok := empty["tags"].(labels); !ok || len(got) != 0 {
		t.Errorf("empty array patch = %#v", empty["tags"])
	}

	// Non-array values for non-slice fields pass through untouched.
	plain := NormalizePatch[widget](map[string]any{"vin": "XYZ"})
	if plain["vin"] != "XYZ" {
		t.Errorf("vin = %v", plain["vin"])
	}
}

func TestNormalizePatchHiddenField(t *testing.T) {
	// A json:"-" field has no JSON name and must be unreachable from a
	// client document.
	patch := NormalizePatch[widget](map[string]any{"Secret": "x", "-": "x"})
	if len(patch) != 0 {
		t.Errorf("hidden field reachable via patch: %v", patch)
	}
}

func TestJSONFieldValue(t *testing.T) {
	uid := "u42"
	w := widget{ID: "w1", UserID: &uid, VIN: "ABC", Price: 10}

	if v, ok := JSONFieldValue(w, "vin"); !ok || v != "ABC" {
		t.Errorf("vin = %v, %v", v, ok)
	}
	if v, ok := JSONFieldValue(&w, "userId"); !ok || v != "u42" {
		t.Errorf("pointer field not dereferenced: %v, %v", v, ok)
	}
	if _, ok := JSONFieldValue(w, "nope"); ok {
		t.Error("unknown field reported as present")
	}

	w.UserID = nil
	if v, ok := JSONFieldValue(w, "userId"); !ok || v != nil {
		t.Errorf("nil pointer field = %v, %v, want nil, true", v, ok)
	}
}

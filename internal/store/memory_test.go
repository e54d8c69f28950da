package store

import (
	"context"
	"testing"
	"time"
)

type note struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	OwnerID   *string   `json:"ownerId"`
	Views     int       `json:"views"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func TestMemoryInsertAssignsIdentity(t *testing.T) {
	col := NewMemoryCollection[note]()

	n := note{Title: "first"}
	if err := col.InsertOne(context.Background(), &n); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n.ID == "" {
		t.Error("id not assigned")
	}
	if n.CreatedAt.IsZero() || n.UpdatedAt.IsZero() {
		t.Error("timestamps not stamped")
	}

	got, err := col.FindByID(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.Title != "first" {
		t.Fatalf("find by id returned %+v", got)
	}
}

func TestMemoryFindFilters(t *testing.T) {
	col := NewMemoryCollection[note]()
	owner := "u1"
	for _, n := range []note{
		{Title: "a", OwnerID: &owner, Views: 3},
		{Title: "b", OwnerID: &owner, Views: 5},
		{Title: "c", Views: 5},
	} {
		n := n
		if err := col.InsertOne(context.Background(), &n); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	byOwner, err := col.FindAll(context.Background(), Filter{"owner_id": "u1"})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(byOwner) != 2 {
		t.Errorf("owner filter matched %d docs, want 2", len(byOwner))
	}

	// Numeric filter values arrive as float64 after JSON decoding.
	byViews, err := col.FindAll(context.Background(), Filter{"views": float64(5)})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(byViews) != 2 {
		t.Errorf("views filter matched %d docs, want 2", len(byViews))
	}

	one, err := col.FindOne(context.Background(), Filter{"title": "c"})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if one == nil || one.Views != 5 {
		t.Errorf("find one returned %+v", one)
	}

	missing, err := col.FindOne(context.Background(), Filter{"title": "zzz"})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for no match, got %+v", missing)
	}
}

func TestMemoryUpdateByID(t *testing.T) {
	col := NewMemoryCollection[note]()
	n := note{Title: "old"}
	if err := col.InsertOne(context.Background(), &n); err != nil {
		t.Fatalf("insert: %v", err)
	}

	matched, err := col.UpdateByID(context.Background(), n.ID, Patch{
		"title":    "new",
		"owner_id": "u9",
		"views":    float64(7),
		"tags":     []any{"x", "y"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if matched != 1 {
		t.Fatalf("matched = %d, want 1", matched)
	}

	got, _ := col.FindByID(context.Background(), n.ID)
	if got.Title != "new" {
		t.Errorf("title = %q", got.Title)
	}
	if got.OwnerID == nil || *got.OwnerID != "u9" {
		t.Errorf("pointer field not set: %v", got.OwnerID)
	}
	if got.Views != 7 {
		t.Errorf("numeric coercion failed: views = %d", got.Views)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "x" {
		t.Errorf("slice rebuild failed: %v", got.Tags)
	}

	matched, err = col.UpdateByID(context.Background(), "no-such-id", Patch{"title": "x"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if matched != 0 {
		t.Errorf("matched = %d for unknown id, want 0", matched)
	}
}

func TestMemoryDeleteByID(t *testing.T) {
	col := NewMemoryCollection[note]()
	n := note{Title: "gone"}
	if err := col.InsertOne(context.Background(), &n); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deleted, err := col.DeleteByID(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	got, _ := col.FindByID(context.Background(), n.ID)
	if got != nil {
		t.Errorf("document still present after delete: %+v", got)
	}

	deleted, err = col.DeleteByID(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second delete reported %d, want 0", deleted)
	}
}

package store

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryCollection is an in-memory Collection used by tests and local
// runs without a database. It mirrors the store semantics the models
// rely on: assigned ids, stamped CreatedAt/UpdatedAt, equality filters
// and matched/deleted counts.
type MemoryCollection[T any] struct {
	mu   sync.RWMutex
	docs []T
}

// NewMemoryCollection returns an empty in-memory collection for T.
func NewMemoryCollection[T any]() *MemoryCollection[T] {
	return &MemoryCollection[T]{}
}

func (m *MemoryCollection[T]) FindAll(_ context.Context, filter Filter) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.docs))
	for _, doc := range m.docs {
		if m.matches(doc, filter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *MemoryCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return m.FindOne(ctx, Filter{"id": id})
}

func (m *MemoryCollection[T]) FindOne(_ context.Context, filter Filter) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.docs {
		if m.matches(doc, filter) {
			copied := doc
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MemoryCollection[T]) InsertOne(_ context.Context, doc *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := reflect.ValueOf(doc).Elem()
	now := time.Now()
	if id := v.FieldByName("ID"); id.IsValid() && id.String() == "" {
		id.SetString(uuid.NewString())
	}
	if created := v.FieldByName("CreatedAt"); created.IsValid() {
		if created.Interface().(time.Time).IsZero() {
			created.Set(reflect.ValueOf(now))
		}
	}
	if updated := v.FieldByName("UpdatedAt"); updated.IsValid() {
		updated.Set(reflect.ValueOf(now))
	}

	m.docs = append(m.docs, *doc)
	return nil
}

func (m *MemoryCollection[T]) UpdateByID(_ context.Context, id string, patch Patch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	meta := metaOf(reflect.TypeOf(*new(T)))
	for i := range m.docs {
		v := reflect.ValueOf(&m.docs[i]).Elem()
		if !m.matches(m.docs[i], Filter{"id": id}) {
			continue
		}
		for column, value := range patch {
			fm, ok := meta.byColumn[column]
			if !ok {
				continue
			}
			setField(v.Field(fm.index), value)
		}
		if updated := v.FieldByName("UpdatedAt"); updated.IsValid() {
			updated.Set(reflect.ValueOf(time.Now()))
		}
		return 1, nil
	}
	return 0, nil
}

func (m *MemoryCollection[T]) DeleteByID(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.docs {
		if m.matches(m.docs[i], Filter{"id": id}) {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MemoryCollection[T]) matches(doc T, filter Filter) bool {
	meta := metaOf(reflect.TypeOf(doc))
	v := reflect.ValueOf(doc)

	for column, want := range filter {
		fm, ok := meta.byColumn[column]
		if !ok {
			return false
		}
		got := deref(v.Field(fm.index))
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

func looseEqual(got, want any) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	if reflect.DeepEqual(got, want) {
		return true
	}
	// Numeric filter values may arrive as a different width than the
	// field holds (JSON numbers decode to float64).
	gv, wv := reflect.ValueOf(got), reflect.ValueOf(want)
	if isNumeric(gv) && isNumeric(wv) {
		return toFloat(gv) == toFloat(wv)
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return float64(v.Int())
	}
}

func setField(field reflect.Value, value any) {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return
	}

	val := reflect.ValueOf(value)
	target := field.Type()

	if target.Kind() == reflect.Pointer {
		elem := reflect.New(target.Elem())
		setField(elem.Elem(), value)
		field.Set(elem)
		return
	}

	switch {
	case val.Type().AssignableTo(target):
		field.Set(val)
	case val.Type().ConvertibleTo(target):
		field.Set(val.Convert(target))
	case val.Kind() == reflect.Slice && target.Kind() == reflect.Slice:
		// JSON arrays decode to []any; rebuild element by element.
		out := reflect.MakeSlice(target, val.Len(), val.Len())
		for i := 0; i < val.Len(); i++ {
			setField(out.Index(i), val.Index(i).Interface())
		}
		field.Set(out)
	}
}

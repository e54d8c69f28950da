package store

import (
	"reflect"
	"strings"
	"sync"
)

// fieldMeta describes one struct field of an entity type.
type fieldMeta struct {
	index  int
	json   string
	column string
	ftype  reflect.Type
}

// typeMeta caches the json-name and column-name views of an entity type.
type typeMeta struct {
	byJSON   map[string]fieldMeta
	byColumn map[string]fieldMeta
}

var metaCache sync.Map // reflect.Type -> *typeMeta

func metaOf(t reflect.Type) *typeMeta {
	if cached, ok := metaCache.Load(t); ok {
		return cached.(*typeMeta)
	}

	meta := &typeMeta{
		byJSON:   make(map[string]fieldMeta),
		byColumn: make(map[string]fieldMeta),
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}

		jsonName := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			name := strings.Split(tag, ",")[0]
			if name == "-" {
				// Fields hidden from JSON (password) are never patchable
				// from a client document, but still addressable by column.
				jsonName = ""
			} else if name != "" {
				jsonName = name
			}
		}

		column := gormColumn(f)
		fm := fieldMeta{index: i, json: jsonName, column: column, ftype: f.Type}
		if jsonName != "" {
			meta.byJSON[jsonName] = fm
		}
		meta.byColumn[column] = fm
	}

	metaCache.Store(t, meta)
	return meta
}

func gormColumn(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("gorm"); ok {
		for _, part := range strings.Split(tag, ";") {
			if strings.HasPrefix(part, "column:") {
				return strings.TrimPrefix(part, "column:")
			}
		}
	}
	return toSnake(f.Name)
}

// toSnake mirrors GORM's default column naming, including acronym runs:
// "UserID" -> "user_id", "VIN" -> "vin", "IsNew" -> "is_new".
func toSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && (isLower(runes[i-1]) || (i+1 < len(runes) && isLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// NormalizePatch converts a client-supplied JSON document into a
// column-keyed patch for T. Unknown fields and the protected fields
// (given by their JSON names) are dropped, so a patch can never touch
// the id, creation timestamp or a generated reference number.
func NormalizePatch[T any](doc map[string]any, protected ...string) Patch {
	meta := metaOf(reflect.TypeOf(*new(T)))

	skip := make(map[string]bool, len(protected)+1)
	skip["id"] = true
	for _, name := range protected {
		skip[name] = true
	}

	patch := Patch{}
	for key, value := range doc {
		if skip[key] {
			continue
		}
		fm, ok := meta.byJSON[key]
		if !ok {
			continue
		}
		patch[fm.column] = coerceSlice(fm.ftype, value)
	}
	return patch
}

// coerceSlice rebuilds a decoded JSON array ([]any) into the field's
// declared slice type. Custom column types with a driver.Valuer only
// fire when the patch carries the declared type, not a raw []any.
func coerceSlice(target reflect.Type, value any) any {
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	src, ok := value.([]any)
	if !ok || target.Kind() != reflect.Slice {
		return value
	}

	out := reflect.MakeSlice(target, len(src), len(src))
	elem := target.Elem()
	for i, v := range src {
		rv := reflect.ValueOf(v)
		if rv.IsValid() && rv.Type().ConvertibleTo(elem) {
			out.Index(i).Set(rv.Convert(elem))
		}
	}
	return out.Interface()
}

// JSONFieldValue returns the value of the field with the given JSON name
// on doc, dereferencing pointers. The second return is false when the
// type has no such field.
func JSONFieldValue(doc any, name string) (any, bool) {
	v := reflect.ValueOf(doc)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	fm, ok := metaOf(v.Type()).byJSON[name]
	if !ok {
		return nil, false
	}
	return deref(v.Field(fm.index)), true
}

func deref(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

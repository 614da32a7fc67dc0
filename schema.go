package pinecone

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kailas-cloud/pinecone-go/filter"
)

const tagKey = "pinecone"

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ reflect.Type
	ptr bool // T is *struct

	idIdx      int
	valuesIdx  int // -1 if not present
	contentIdx int // -1 if not present

	metadata []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts pinecone struct tag metadata.
//
//	ID    string    `pinecone:"id"`
//	Vec   []float32 `pinecone:"values"`
//	Plot  string    `pinecone:"plot,content"`
//	Genre string    `pinecone:"genre"`
//	Year  int       `pinecone:"year,metadata"`
//
// A tag is "name,role". The bare roles "id", "values" and "content" are
// shorthands for ",id", ",values" and ",content". Fields without a role, or
// with the metadata role, are stored as metadata under the tag name, or the
// field name when the tag name is empty. Use "values,metadata" for a
// metadata field literally named after a role.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("pinecone: type parameter is an interface")
	}
	ptr := t.Kind() == reflect.Pointer
	if ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("pinecone: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, ptr: ptr, idIdx: -1, valuesIdx: -1, contentIdx: -1}

	for i := range t.NumField() {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup(tagKey)
		if !ok || tag == "-" || !f.IsExported() {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	return validateSchema(meta, t)
}

// applyTag processes a single struct field's pinecone tag.
func applyTag(meta *schemaMeta, idx int, f reflect.StructField, tag string) error {
	name, modifier, hasModifier := strings.Cut(tag, ",")
	if !hasModifier && isRole(name) {
		name, modifier = "", name
	}
	if name == "" {
		name = f.Name
	}

	switch modifier {
	case "id":
		if meta.idIdx != -1 {
			return fmt.Errorf("pinecone: duplicate id tag on field %s", f.Name)
		}
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("pinecone: id field %s must be a string", f.Name)
		}
		meta.idIdx = idx
	case "values":
		if meta.valuesIdx != -1 {
			return fmt.Errorf("pinecone: duplicate values tag on field %s", f.Name)
		}
		if f.Type != reflect.TypeOf([]float32(nil)) {
			return fmt.Errorf("pinecone: values field %s must be []float32", f.Name)
		}
		meta.valuesIdx = idx
	case "content":
		if meta.contentIdx != -1 {
			return fmt.Errorf("pinecone: duplicate content tag on field %s", f.Name)
		}
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("pinecone: content field %s must be a string", f.Name)
		}
		meta.contentIdx = idx
		// Content is kept in metadata so search hits can rebuild the item.
		meta.metadata = append(meta.metadata, fieldMapping{structIdx: idx, name: name})
	case "", "metadata":
		if !isScalar(f.Type.Kind()) {
			return fmt.Errorf("pinecone: metadata field %s has unsupported type %s", f.Name, f.Type)
		}
		meta.metadata = append(meta.metadata, fieldMapping{structIdx: idx, name: name})
	default:
		return fmt.Errorf("pinecone: unknown modifier %q on field %s", modifier, f.Name)
	}
	return nil
}

func isRole(s string) bool {
	return s == "id" || s == "values" || s == "content"
}

func validateSchema(meta *schemaMeta, t reflect.Type) (*schemaMeta, error) {
	if meta.idIdx == -1 {
		return nil, fmt.Errorf("pinecone: no field with `pinecone:\"id\"` tag in %s", t)
	}
	if meta.valuesIdx == -1 && meta.contentIdx == -1 {
		return nil, fmt.Errorf("pinecone: %s needs a values or a content field", t)
	}
	seen := make(map[string]bool, len(meta.metadata))
	for _, m := range meta.metadata {
		if seen[m.name] {
			return nil, fmt.Errorf("pinecone: duplicate metadata name %q in %s", m.name, t)
		}
		seen[m.name] = true
	}
	return meta, nil
}

// indexedFields lists the metadata names, for WithIndexedMetadata.
func (m *schemaMeta) indexedFields() []string {
	names := make([]string, len(m.metadata))
	for i, f := range m.metadata {
		names[i] = f.name
	}
	return names
}

// toVector converts a typed struct to a Vector and returns the text to embed
// when the values field is empty.
func (m *schemaMeta) toVector(item any) (Vector, string) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Vector{}, ""
		}
		v = v.Elem()
	}

	vec := Vector{ID: v.Field(m.idIdx).String()}
	if m.valuesIdx != -1 {
		vec.Values, _ = v.Field(m.valuesIdx).Interface().([]float32)
	}
	if len(m.metadata) > 0 {
		vec.Metadata = make(Metadata, len(m.metadata))
		for _, f := range m.metadata {
			vec.Metadata[f.name] = toValue(v.Field(f.structIdx))
		}
	}

	var content string
	if len(vec.Values) == 0 && m.contentIdx != -1 {
		content = v.Field(m.contentIdx).String()
	}
	return vec, content
}

// fromVector converts a Vector back to a typed struct. It fails when a
// metadata entry has a kind the field cannot hold.
func (m *schemaMeta) fromVector(vec Vector) (any, error) {
	p := reflect.New(m.typ)
	v := p.Elem()

	v.Field(m.idIdx).SetString(vec.ID)
	if m.valuesIdx != -1 && vec.Values != nil {
		v.Field(m.valuesIdx).Set(reflect.ValueOf(vec.Values))
	}
	for _, f := range m.metadata {
		val, ok := vec.Metadata[f.name]
		if !ok {
			continue
		}
		field := v.Field(f.structIdx)
		if !setValue(field, val) {
			return nil, fmt.Errorf("vector %q: metadata %q is %s, field %s is %s",
				vec.ID, f.name, val.Kind(), m.typ.Field(f.structIdx).Name, field.Type())
		}
	}
	if m.ptr {
		return p.Interface(), nil
	}
	return v.Interface(), nil
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func toValue(v reflect.Value) filter.Value {
	switch v.Kind() {
	case reflect.Bool:
		return filter.Bool(v.Bool())
	case reflect.String:
		return filter.String(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return filter.Int(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return filter.Int(int64(v.Uint()))
	default:
		return filter.Float(v.Float())
	}
}

// setValue stores val into v and reports whether the kinds were compatible.
// Integers go into float fields and integral floats into int fields.
func setValue(v reflect.Value, val filter.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		b, ok := val.AsBool()
		if ok {
			v.SetBool(b)
		}
		return ok
	case reflect.String:
		s, ok := val.AsString()
		if ok {
			v.SetString(s)
		}
		return ok
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, ok := val.AsInt(); ok {
			v.SetInt(i)
			return true
		}
		if f, ok := val.AsFloat(); ok && f == float64(int64(f)) {
			v.SetInt(int64(f))
			return true
		}
		return false
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		i, ok := val.AsInt()
		if !ok || i < 0 {
			return false
		}
		v.SetUint(uint64(i))
		return true
	case reflect.Float32, reflect.Float64:
		if f, ok := val.AsFloat(); ok {
			v.SetFloat(f)
			return true
		}
		if i, ok := val.AsInt(); ok {
			v.SetFloat(float64(i))
			return true
		}
		return false
	default:
		return false
	}
}

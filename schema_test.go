package pinecone

import (
	"testing"

	"github.com/kailas-cloud/pinecone-go/filter"
)

type textDoc struct {
	ID      string `pinecone:",id"`
	Content string `pinecone:"body,content"`
	Author  string `pinecone:"author"`
	Draft   bool
}

type vecDoc struct {
	ID     string    `pinecone:"id,id"`
	Values []float32 `pinecone:",values"`
	Rank   uint16    `pinecone:""`
	Weight float32   `pinecone:"w"`
}

func TestParseSchema_TextDoc(t *testing.T) {
	meta, err := parseSchema[textDoc]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.idIdx != 0 || meta.contentIdx != 1 || meta.valuesIdx != -1 {
		t.Errorf("indexes = id %d content %d values %d", meta.idIdx, meta.contentIdx, meta.valuesIdx)
	}
	got := meta.indexedFields()
	if len(got) != 2 || got[0] != "body" || got[1] != "author" {
		t.Errorf("indexedFields = %v, want [body author]", got)
	}
}

func TestParseSchema_DefaultNames(t *testing.T) {
	meta, err := parseSchema[*vecDoc]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := meta.indexedFields()
	if len(got) != 2 || got[0] != "Rank" || got[1] != "w" {
		t.Errorf("indexedFields = %v, want [Rank w]", got)
	}
}

func TestParseSchema_Errors(t *testing.T) {
	type noID struct {
		V []float32 `pinecone:",values"`
	}
	type noVector struct {
		ID string `pinecone:",id"`
	}
	type dupID struct {
		A string    `pinecone:",id"`
		B string    `pinecone:",id"`
		V []float32 `pinecone:",values"`
	}
	type intID struct {
		ID int       `pinecone:",id"`
		V  []float32 `pinecone:",values"`
	}
	type badValues struct {
		ID string    `pinecone:",id"`
		V  []float64 `pinecone:",values"`
	}
	type badModifier struct {
		ID string    `pinecone:",id"`
		V  []float32 `pinecone:",values"`
		X  string    `pinecone:"x,tag"`
	}
	type badMetadata struct {
		ID string    `pinecone:",id"`
		V  []float32 `pinecone:",values"`
		X  []string  `pinecone:"x"`
	}
	type dupName struct {
		ID string    `pinecone:",id"`
		V  []float32 `pinecone:",values"`
		A  string    `pinecone:"x"`
		B  int       `pinecone:"x"`
	}

	checks := map[string]error{}
	_, checks["not a struct"] = parseSchema[string]()
	_, checks["no id"] = parseSchema[noID]()
	_, checks["no vector"] = parseSchema[noVector]()
	_, checks["dup id"] = parseSchema[dupID]()
	_, checks["int id"] = parseSchema[intID]()
	_, checks["bad values"] = parseSchema[badValues]()
	_, checks["bad modifier"] = parseSchema[badModifier]()
	_, checks["bad metadata"] = parseSchema[badMetadata]()
	_, checks["dup name"] = parseSchema[dupName]()
	for name, err := range checks {
		if err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSchema_RoundTrip(t *testing.T) {
	meta, err := parseSchema[vecDoc]()
	if err != nil {
		t.Fatal(err)
	}
	in := vecDoc{ID: "a", Values: []float32{1, 2}, Rank: 3, Weight: 0.5}

	vec, content := meta.toVector(in)
	if content != "" {
		t.Errorf("content = %q for a vector with values", content)
	}
	if vec.ID != "a" || len(vec.Values) != 2 {
		t.Errorf("vector = %+v", vec)
	}
	if k := vec.Metadata["Rank"].Kind(); k != filter.KindInt {
		t.Errorf("Rank kind = %v", k)
	}

	item, err := meta.fromVector(vec)
	if err != nil {
		t.Fatalf("fromVector: %v", err)
	}
	out, ok := item.(vecDoc)
	if !ok {
		t.Fatal("fromVector returned the wrong type")
	}
	if out.ID != in.ID || out.Rank != in.Rank || out.Weight != in.Weight || out.Values[1] != 2 {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestSchema_ContentToEmbed(t *testing.T) {
	meta, err := parseSchema[textDoc]()
	if err != nil {
		t.Fatal(err)
	}
	vec, content := meta.toVector(textDoc{ID: "x", Content: "hello", Author: "me"})
	if content != "hello" {
		t.Errorf("content = %q", content)
	}
	if s, _ := vec.Metadata["body"].AsString(); s != "hello" {
		t.Errorf("body metadata = %v", vec.Metadata["body"])
	}
}

func TestSchema_FromVectorKinds(t *testing.T) {
	meta, err := parseSchema[vecDoc]()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		md      Metadata
		wantErr bool
	}{
		{"int into float", Metadata{"w": filter.Int(2)}, false},
		{"int into uint", Metadata{"Rank": filter.Int(7)}, false},
		{"missing fields", nil, false},
		{"string into uint", Metadata{"Rank": filter.String("not a number")}, true},
		{"negative into uint", Metadata{"Rank": filter.Int(-1)}, true},
		{"bool into float", Metadata{"w": filter.Bool(true)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := meta.fromVector(Vector{ID: "a", Metadata: tt.md})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSchema_RoleShorthand(t *testing.T) {
	type movie struct {
		ID      string    `pinecone:"id"`
		Vec     []float32 `pinecone:"values"`
		Plot    string    `pinecone:"content"`
		Genre   string    `pinecone:"genre,metadata"`
		Version int       `pinecone:"values,metadata"`
	}
	meta, err := parseSchema[movie]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.idIdx != 0 || meta.valuesIdx != 1 || meta.contentIdx != 2 {
		t.Errorf("indexes = id %d values %d content %d", meta.idIdx, meta.valuesIdx, meta.contentIdx)
	}
	got := meta.indexedFields()
	want := []string{"Plot", "genre", "values"}
	if len(got) != len(want) {
		t.Fatalf("indexedFields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("indexedFields = %v, want %v", got, want)
			break
		}
	}
}

func TestParseSchema_PointerItems(t *testing.T) {
	meta, err := parseSchema[*vecDoc]()
	if err != nil {
		t.Fatal(err)
	}
	item, err := meta.fromVector(Vector{ID: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := item.(*vecDoc); !ok {
		t.Error("pointer schema did not rebuild a pointer")
	}
	vec, _ := meta.toVector(&vecDoc{ID: "p", Values: []float32{1}})
	if vec.ID != "p" {
		t.Errorf("ID = %q", vec.ID)
	}
}

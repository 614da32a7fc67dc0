package urlbuilder

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/pinecone-go/internal/operation"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController("us-west1-gcp", DefaultEndpoint())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func newProject(t *testing.T) *Project {
	t.Helper()
	p, err := newController(t).WithProject("abc123")
	if err != nil {
		t.Fatalf("WithProject: %v", err)
	}
	return p
}

func TestController_Build(t *testing.T) {
	c := newController(t)

	tests := []struct {
		kind     operation.Kind
		resource string
		want     string
	}{
		{operation.IndexDescribe, "foo", "https://controller.us-west1-gcp.pinecone.io/databases/foo"},
		{operation.IndexDelete, "foo", "https://controller.us-west1-gcp.pinecone.io/databases/foo"},
		{operation.IndexConfigure, "foo", "https://controller.us-west1-gcp.pinecone.io/databases/foo"},
		{operation.IndexList, "", "https://controller.us-west1-gcp.pinecone.io/databases"},
		{operation.IndexCreate, "", "https://controller.us-west1-gcp.pinecone.io/databases"},
		{operation.CollectionList, "", "https://controller.us-west1-gcp.pinecone.io/collections"},
		{operation.CollectionDescribe, "snap", "https://controller.us-west1-gcp.pinecone.io/collections/snap"},
		{operation.WhoAmI, "", "https://controller.us-west1-gcp.pinecone.io/actions/whoami"},
		// fixed paths ignore the resource
		{operation.WhoAmI, "ignored", "https://controller.us-west1-gcp.pinecone.io/actions/whoami"},
		{operation.IndexList, "ignored", "https://controller.us-west1-gcp.pinecone.io/databases"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.resource, func(t *testing.T) {
			got, err := c.Build(tt.kind, tt.resource)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestController_Build_Errors(t *testing.T) {
	c := newController(t)

	tests := []struct {
		name     string
		kind     operation.Kind
		resource string
		want     error
	}{
		{"data plane", operation.VectorQuery, "idx", ErrDataPlaneUnbound},
		{"missing resource", operation.IndexDescribe, "", ErrMissingResource},
		{"unknown", operation.Kind(0), "", ErrUnknownOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Build(tt.kind, tt.resource)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewController_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		ep   Endpoint
	}{
		{"empty env", "", DefaultEndpoint()},
		{"env with dot", "a.b", DefaultEndpoint()},
		{"no scheme", "us-west1-gcp", Endpoint{Domain: "pinecone.io"}},
		{"no domain", "us-west1-gcp", Endpoint{Scheme: "https"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewController(tt.env, tt.ep); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestProject_Build(t *testing.T) {
	p, err := newController(t).WithProject("abc123")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		kind operation.Kind
		want string
	}{
		{operation.VectorUpsert, "https://movies-abc123.svc.us-west1-gcp.pinecone.io/vectors/upsert"},
		{operation.VectorQuery, "https://movies-abc123.svc.us-west1-gcp.pinecone.io/query"},
		{operation.VectorFetch, "https://movies-abc123.svc.us-west1-gcp.pinecone.io/vectors/fetch"},
		{operation.VectorDescribeIndexStats, "https://movies-abc123.svc.us-west1-gcp.pinecone.io/describe_index_stats"},
		{operation.IndexDescribe, "https://controller.us-west1-gcp.pinecone.io/databases/movies"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := p.Build(tt.kind, "movies")
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := p.Build(operation.VectorQuery, ""); !errors.Is(err, ErrMissingResource) {
		t.Errorf("empty index: err = %v", err)
	}
	if got, err := p.IndexHost("movies"); err != nil || got != "movies-abc123.svc.us-west1-gcp.pinecone.io" {
		t.Errorf("IndexHost = %q, %v", got, err)
	}
}

func TestProject_RejectsHostileIndexNames(t *testing.T) {
	p := newProject(t)

	for _, name := range []string{
		"attacker.example/x?",
		"evil.com#",
		"user@evil.com",
		"a.b",
		"Movies",
		"-movies",
		"movies-",
		"mo vies",
		strings.Repeat("a", 64),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Build(operation.VectorUpsert, name); !errors.Is(err, ErrInvalidIndexName) {
				t.Errorf("Build: err = %v, want ErrInvalidIndexName", err)
			}
			if _, err := p.IndexHost(name); !errors.Is(err, ErrInvalidIndexName) {
				t.Errorf("IndexHost: err = %v, want ErrInvalidIndexName", err)
			}
		})
	}

	for _, name := range []string{"movies", "a", "movies-2024", strings.Repeat("a", 63)} {
		if err := ValidateIndexName(name); err != nil {
			t.Errorf("ValidateIndexName(%q) = %v", name, err)
		}
	}
}

func TestWithProject_DoesNotMutateController(t *testing.T) {
	c := newController(t)
	if _, err := c.WithProject(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty project: err = %v", err)
	}
	if _, err := c.WithProject("p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Build(operation.VectorQuery, "idx"); !errors.Is(err, ErrDataPlaneUnbound) {
		t.Errorf("controller gained data-plane access: %v", err)
	}
}

func TestCustomEndpoint(t *testing.T) {
	c, err := NewController("local", Endpoint{Scheme: "http", Domain: "example.test"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.WithProject("proj")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := p.Build(operation.VectorDelete, "idx")
	if got != "http://idx-proj.svc.local.example.test/vectors/delete" {
		t.Errorf("Build = %q", got)
	}
	if c.Host() != "http://controller.local.example.test" {
		t.Errorf("Host = %q", c.Host())
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	pinecone "github.com/kailas-cloud/pinecone-go"
	"github.com/kailas-cloud/pinecone-go/internal/config"
	fake "github.com/kailas-cloud/pinecone-go/internal/transport/chi"
)

const testConfig = `
pinecone:
  environment: test-env
  api_key: key
logging:
  level: error
`

type harness struct {
	t       *testing.T
	srv     *fake.Server
	cfgPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	return &harness{
		t:       t,
		srv:     fake.NewServer(fake.Config{Environment: "test-env", Project: "proj", APIKeys: []string{"key"}}),
		cfgPath: path,
	}
}

// run executes one CLI invocation against the fake server and returns stdout.
func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer
	a := newApp(&out)
	a.newClient = func(ctx context.Context, cfg config.Config, log *zap.Logger, extra ...pinecone.Option) (*pinecone.Client, error) {
		return defaultClient(ctx, cfg, log, append(extra, pinecone.WithHTTPClient(h.srv.Client()))...)
	}
	root := newRootCmd(a)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", h.cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%v: %v", args, err)
	}
	return out
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestCLI_WhoAmI(t *testing.T) {
	h := newHarness(t)
	meta := decode[pinecone.APIMetadata](t, h.mustRun("whoami"))
	if meta.ProjectName != "proj" {
		t.Errorf("project = %q, want proj", meta.ProjectName)
	}
}

func TestCLI_IndexLifecycle(t *testing.T) {
	h := newHarness(t)

	h.mustRun("indexes", "create", "movies", "--dimension", "2", "--metric", "dotproduct")
	if _, err := h.run("indexes", "create", "movies", "--dimension", "2"); err == nil {
		t.Fatal("duplicate create succeeded")
	}
	if created := decode[bool](t, h.mustRun("indexes", "create", "movies", "--dimension", "2", "--if-missing")); created {
		t.Error("--if-missing reported a new index")
	}

	names := decode[[]string](t, h.mustRun("indexes", "list"))
	if len(names) != 1 || names[0] != "movies" {
		t.Fatalf("list = %v", names)
	}

	desc := decode[pinecone.IndexDescription](t, h.mustRun("indexes", "describe", "movies"))
	if desc.Database.Dimension != 2 || desc.Database.Metric != pinecone.MetricDotProduct {
		t.Errorf("describe = %+v", desc.Database)
	}

	h.mustRun("indexes", "configure", "movies", "--replicas", "2")
	h.mustRun("indexes", "delete", "movies")

	_, err := h.run("indexes", "describe", "movies")
	if err == nil || !strings.Contains(err.Error(), "request_failed") {
		t.Errorf("describe after delete: %v", err)
	}
}

func TestCLI_Vectors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("indexes", "create", "movies", "--dimension", "2")

	data := `[
		{"id":"a","values":[1,0],"metadata":{"genre":"drama","year":2020}},
		{"id":"b","values":[0,1],"metadata":{"genre":"comedy","year":2010}}
	]`
	up := decode[pinecone.UpsertResult](t, h.mustRun("vectors", "upsert", "movies", "-n", "ns", "--data", data))
	if up.UpsertedCount != 2 {
		t.Fatalf("upserted = %d", up.UpsertedCount)
	}

	got := decode[pinecone.FetchResult](t, h.mustRun("vectors", "fetch", "movies", "a", "zzz", "-n", "ns"))
	if _, ok := got.Vectors["a"]; !ok || len(got.Vectors) != 1 {
		t.Fatalf("fetch = %+v", got.Vectors)
	}

	q := decode[pinecone.QueryResult](t, h.mustRun("vectors", "query", "movies", "-n", "ns",
		"--vector", "[1,0.1]", "--top-k", "5", "--filter", `{"year":{"$gte":2015}}`, "--include-metadata"))
	if len(q.Matches) != 1 || q.Matches[0].ID != "a" {
		t.Fatalf("query = %+v", q.Matches)
	}

	h.mustRun("vectors", "update", "movies", "b", "-n", "ns", "--set-metadata", `{"year":2021}`)
	stats := decode[pinecone.IndexStats](t, h.mustRun("vectors", "stats", "movies", "--filter", `{"year":{"$gt":2015}}`))
	if stats.TotalVectorCount != 2 {
		t.Errorf("filtered count = %d, want 2", stats.TotalVectorCount)
	}

	h.mustRun("vectors", "delete", "movies", "a", "-n", "ns")
	stats = decode[pinecone.IndexStats](t, h.mustRun("vectors", "stats", "movies"))
	if stats.Namespaces["ns"].VectorCount != 1 {
		t.Errorf("namespaces = %+v", stats.Namespaces)
	}
}

func TestCLI_ArgumentErrors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("indexes", "create", "movies", "--dimension", "2")

	tests := []struct {
		name string
		args []string
	}{
		{"query without target", []string{"vectors", "query", "movies"}},
		{"query with two targets", []string{"vectors", "query", "movies", "--vector", "[1,0]", "--id", "a"}},
		{"bad filter", []string{"vectors", "query", "movies", "--id", "a", "--filter", `{"a":{"$foo":1}}`}},
		{"delete without mode", []string{"vectors", "delete", "movies"}},
		{"delete two modes", []string{"vectors", "delete", "movies", "a", "--all"}},
		{"text without embedder", []string{"vectors", "query", "movies", "--text", "hello"}},
		{"create without dimension", []string{"indexes", "create", "other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.run(tt.args...); err == nil {
				t.Errorf("%v succeeded", tt.args)
			}
		})
	}
}

func TestCLI_Collections(t *testing.T) {
	h := newHarness(t)
	h.mustRun("indexes", "create", "movies", "--dimension", "2")
	h.mustRun("collections", "create", "snap", "--source", "movies")

	names := decode[[]string](t, h.mustRun("collections", "list"))
	if len(names) != 1 || names[0] != "snap" {
		t.Fatalf("list = %v", names)
	}
	desc := decode[pinecone.CollectionDescription](t, h.mustRun("collections", "describe", "snap"))
	if desc.Name != "snap" || desc.Status != "Ready" {
		t.Errorf("describe = %+v", desc)
	}
	h.mustRun("collections", "delete", "snap")
}

func TestCLI_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pinecone:\n  environment: x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	a := newApp(io.Discard)
	root := newRootCmd(a)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", path, "whoami"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected config error")
	}
}

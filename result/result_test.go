package result

import (
	"errors"
	"strconv"
	"strings"
	"syscall"
	"testing"
)

func TestOk(t *testing.T) {
	r := Ok(42)
	if !r.IsOk() || r.IsErr() {
		t.Fatal("expected ok")
	}
	if r.Value() != 42 {
		t.Errorf("Value() = %d, want 42", r.Value())
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
	if r.Kind() != 0 {
		t.Errorf("Kind() = %v, want 0", r.Kind())
	}
	v, err := r.Unwrap()
	if err != nil || v != 42 {
		t.Errorf("Unwrap() = (%d, %v)", v, err)
	}
	if r.String() != "success" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestFailureKinds(t *testing.T) {
	tests := []struct {
		name     string
		r        Result[string]
		kind     Kind
		sentinel error
		prefix   string
	}{
		{"transport", TransportRejected[string](syscall.ECONNREFUSED), KindTransportRejected, ErrTransportRejected, "Request rejected: "},
		{"request", RequestFailed[string](404, []byte(`{"code":5}`)), KindRequestFailed, ErrRequestFailed, "Request failed: 404 "},
		{"parsing", ParsingFailed[string]("unexpected end of JSON input"), KindParsingFailed, ErrParsingFailed, "Parsing failed: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.r.IsOk() || !tt.r.IsErr() {
				t.Fatal("expected err")
			}
			if tt.r.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.r.Kind(), tt.kind)
			}
			_, err := tt.r.Unwrap()
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			for _, other := range []error{ErrTransportRejected, ErrRequestFailed, ErrParsingFailed} {
				if other != tt.sentinel && errors.Is(err, other) {
					t.Errorf("error also matches %v", other)
				}
			}
			if !strings.HasPrefix(tt.r.String(), tt.prefix) {
				t.Errorf("String() = %q, want prefix %q", tt.r.String(), tt.prefix)
			}
		})
	}
}

func TestTransportRejected_UnwrapsCause(t *testing.T) {
	_, err := TransportRejected[int](syscall.ECONNREFUSED).Unwrap()
	if !errors.Is(err, syscall.ECONNREFUSED) {
		t.Errorf("cause not reachable through %v", err)
	}
}

func TestRequestFailed_KeepsRawBody(t *testing.T) {
	body := []byte("index not found")
	r := RequestFailed[int](404, body)
	if r.Err().StatusCode != 404 {
		t.Errorf("StatusCode = %d", r.Err().StatusCode)
	}
	if string(r.Err().Body) != "index not found" {
		t.Errorf("Body = %q", r.Err().Body)
	}
}

func TestMap_Ok(t *testing.T) {
	r := Map(Ok(7), func(v int) Result[string] { return Ok(strconv.Itoa(v * 2)) })
	if !r.IsOk() || r.Value() != "14" {
		t.Errorf("Map = %v / %q", r, r.Value())
	}
}

func TestMap_OkToErr(t *testing.T) {
	r := Map(Ok(7), func(int) Result[string] { return ParsingFailed[string]("bad") })
	if r.Kind() != KindParsingFailed {
		t.Errorf("Kind() = %v", r.Kind())
	}
}

func TestMap_ShortCircuits(t *testing.T) {
	errs := []Result[int]{
		TransportRejected[int](errors.New("dial tcp: connection refused")),
		RequestFailed[int](500, []byte("boom")),
		ParsingFailed[int]("bad json"),
	}
	for _, in := range errs {
		called := false
		out := Map(in, func(int) Result[bool] {
			called = true
			return Ok(true)
		})
		if called {
			t.Errorf("%v: mapping function called on failed result", in)
		}
		if out.Err() != in.Err() {
			t.Errorf("%v: error payload not carried over: %v", in, out.Err())
		}
	}
}

func TestAPIError(t *testing.T) {
	body := []byte(`{"code":3,"message":"bad dimension","details":[{"typeUrl":"t","value":"v"}]}`)
	apiErr, ok := NewRequestFailed(400, body).APIError()
	if !ok {
		t.Fatal("expected envelope")
	}
	if apiErr.Code != 3 || apiErr.Message != "bad dimension" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if len(apiErr.Details) != 1 || apiErr.Details[0].TypeURL != "t" {
		t.Errorf("Details = %+v", apiErr.Details)
	}
}

func TestAPIError_NotEnvelope(t *testing.T) {
	cases := []*Error{
		NewRequestFailed(404, []byte("not found")),
		NewRequestFailed(500, nil),
		NewRequestFailed(400, []byte(`{"other":1}`)),
		NewParsingFailed("x"),
	}
	for _, e := range cases {
		if _, ok := e.APIError(); ok {
			t.Errorf("%v: expected no envelope", e)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindRequestFailed.String() != "request_failed" {
		t.Errorf("String() = %q", KindRequestFailed.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("String() = %q", Kind(99).String())
	}
}

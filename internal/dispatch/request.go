package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/pinecone-go/filter"
	"github.com/kailas-cloud/pinecone-go/internal/operation"
)

// ErrInvalidPayload is returned when a request body cannot be built.
var ErrInvalidPayload = errors.New("invalid request payload")

// Request is one operation bound to its inputs. The body is serialized when
// the Request is built, so a Request that exists can always be sent.
type Request struct {
	kind     operation.Kind
	resource string
	query    string
	body     []byte
}

// NewRequest builds a request that takes no inputs, e.g. WhoAmI or IndexList.
func NewRequest(kind operation.Kind) Request {
	return Request{kind: kind}
}

// NewResourceRequest builds a request addressed to one named resource.
func NewResourceRequest(kind operation.Kind, resource string) Request {
	return Request{kind: kind, resource: resource}
}

// NewBodyRequest builds a request carrying payload as its JSON body.
func NewBodyRequest(kind operation.Kind, payload any) (Request, error) {
	body, err := encodeBody(payload, nil, false)
	if err != nil {
		return Request{}, fmt.Errorf("%s: %w", kind, err)
	}
	return Request{kind: kind, body: body}, nil
}

// NewResourceBodyRequest builds a request addressed to resource with payload
// as its JSON body.
func NewResourceBodyRequest(kind operation.Kind, resource string, payload any) (Request, error) {
	body, err := encodeBody(payload, nil, false)
	if err != nil {
		return Request{}, fmt.Errorf("%s: %w", kind, err)
	}
	return Request{kind: kind, resource: resource, body: body}, nil
}

// NewFilteredRequest builds a request whose body is payload's fields merged
// with a "filter" field holding f. The filter field is always present: a nil
// f or filter.None() yields "filter":{}.
func NewFilteredRequest(kind operation.Kind, resource string, payload any, f filter.Expression) (Request, error) {
	body, err := encodeBody(payload, f, true)
	if err != nil {
		return Request{}, fmt.Errorf("%s: %w", kind, err)
	}
	return Request{kind: kind, resource: resource, body: body}, nil
}

// WithQuery returns a copy of r with an encoded query string appended to its URL.
func (r Request) WithQuery(rawQuery string) Request {
	r.query = rawQuery
	return r
}

// Kind returns the operation.
func (r Request) Kind() operation.Kind { return r.kind }

// Resource returns the resource name, empty for fixed and collection paths.
func (r Request) Resource() string { return r.resource }

// Query returns the encoded query string.
func (r Request) Query() string { return r.query }

// Body returns the serialized body, nil when the request has none.
func (r Request) Body() []byte { return r.body }

// encodeBody renders payload as a JSON object and, when withFilter is set,
// adds the filter under filter.Key. Top-level keys come out sorted.
func encodeBody(payload any, f filter.Expression, withFilter bool) ([]byte, error) {
	fields := map[string]json.RawMessage{}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		if string(raw) != "null" {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidPayload)
			}
		}
	}

	if withFilter {
		if f == nil {
			f = filter.None()
		}
		if err := filter.Validate(f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		tree, err := json.Marshal(f.Tree())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		fields[filter.Key] = tree
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return data, nil
}

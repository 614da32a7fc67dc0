package dispatch

import (
	"encoding/json"
	"net/http"

	"github.com/kailas-cloud/pinecone-go/result"
)

// Parser turns the body of a success response into a typed result.
type Parser[T any] func(body []byte) result.Result[T]

// DecodeJSON decodes body into T. Any decode error is ParsingFailed.
func DecodeJSON[T any](body []byte) result.Result[T] {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return result.ParsingFailed[T](err.Error())
	}
	return result.Ok(v)
}

// Raw passes the response text through verbatim. It never fails.
func Raw(body []byte) result.Result[string] {
	return result.Ok(string(body))
}

// IsSuccess reports whether code is in the success range {200, 201, 202}.
func IsSuccess(code int) bool {
	switch code {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return true
	default:
		return false
	}
}

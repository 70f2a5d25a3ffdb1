package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shelfsense/pidash/internal/api"
)

// Problem types for RFC 7807 Problem Details responses.
const (
	ProblemTypeNotFound           = "https://pidash.shelfsense.dev/problems/not-found"
	ProblemTypeBadRequest         = "https://pidash.shelfsense.dev/problems/bad-request"
	ProblemTypeInternal           = "https://pidash.shelfsense.dev/problems/internal-error"
	ProblemTypeUnauthorized       = "https://pidash.shelfsense.dev/problems/unauthorized"
	ProblemTypeRateLimited        = "https://pidash.shelfsense.dev/problems/rate-limited"
	ProblemTypeFeatureUnavailable = "https://pidash.shelfsense.dev/problems/feature-unavailable"
	ProblemTypeUpstream           = "https://pidash.shelfsense.dev/problems/upstream-error"
	ProblemTypeContract           = "https://pidash.shelfsense.dev/problems/contract-violation"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type          string `json:"type" example:"https://pidash.shelfsense.dev/problems/bad-request"`
	Title         string `json:"title" example:"Bad Request"`
	Status        int    `json:"status" example:"400"`
	Detail        string `json:"detail,omitempty" example:"invalid session id"`
	Instance      string `json:"instance,omitempty" example:"/api/v1/sessions/abc"`
	CorrelationID string `json:"correlation_id,omitempty" example:"9f2c4e1a"`
	Retryable     bool   `json:"retryable,omitempty"`
}

// WriteProblem writes an RFC 7807 Problem Details JSON response.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NotFound writes a 404 problem response.
func NotFound(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     ProblemTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: instance,
	})
}

// BadRequest writes a 400 problem response.
func BadRequest(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     ProblemTypeBadRequest,
		Title:    "Bad Request",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: instance,
	})
}

// InternalError writes a 500 problem response.
func InternalError(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     ProblemTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: instance,
	})
}

// RateLimited writes a 429 problem response.
func RateLimited(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     ProblemTypeRateLimited,
		Title:    "Too Many Requests",
		Status:   http.StatusTooManyRequests,
		Detail:   detail,
		Instance: instance,
	})
}

// WriteUpstreamError maps an orchestrator client error to the appropriate
// problem response. Feature gaps become 503 so the frontend can show a
// "not supported on this device" state rather than an error toast.
func WriteUpstreamError(w http.ResponseWriter, err error, instance string) {
	apiErr, ok := api.AsError(err)
	if !ok {
		InternalError(w, err.Error(), instance)
		return
	}

	switch apiErr.Code {
	case api.CodeNotFound:
		NotFound(w, apiErr.Message, instance)
	case api.CodeUnavailable:
		p := Problem{
			Type:          ProblemTypeFeatureUnavailable,
			Title:         "Feature Unavailable",
			Status:        http.StatusServiceUnavailable,
			Detail:        apiErr.Message,
			Instance:      instance,
			CorrelationID: apiErr.CorrelationID,
		}
		if apiErr.RetryAfterSec > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(apiErr.RetryAfterSec))
		}
		WriteProblem(w, p)
	case api.CodeValidation:
		WriteProblem(w, Problem{
			Type:          ProblemTypeContract,
			Title:         "Bad Gateway",
			Status:        http.StatusBadGateway,
			Detail:        apiErr.Message,
			Instance:      instance,
			CorrelationID: apiErr.CorrelationID,
		})
	case api.CodeNetwork, api.CodeServer:
		WriteProblem(w, Problem{
			Type:          ProblemTypeUpstream,
			Title:         "Bad Gateway",
			Status:        http.StatusBadGateway,
			Detail:        apiErr.Message,
			Instance:      instance,
			CorrelationID: apiErr.CorrelationID,
			Retryable:     apiErr.Retryable,
		})
	default:
		status := apiErr.HTTPStatus
		if status < 400 || status > 499 {
			status = http.StatusInternalServerError
		}
		WriteProblem(w, Problem{
			Type:          ProblemTypeBadRequest,
			Title:         http.StatusText(status),
			Status:        status,
			Detail:        apiErr.Message,
			Instance:      instance,
			CorrelationID: apiErr.CorrelationID,
		})
	}
}

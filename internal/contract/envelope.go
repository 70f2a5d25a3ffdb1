package contract

import (
	"encoding/json"
	"fmt"
)

// Envelope is the outer wrapper the orchestrator places around most JSON
// responses.
type Envelope struct {
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Timestamp     string          `json:"timestamp,omitempty"`
	Error         *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the orchestrator's structured error payload.
type ErrorBody struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	Retryable         bool   `json:"retryable"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// UnwrapOptions controls the resilient envelope parse strategy.
//
// AllowBare accepts a payload that arrives without the envelope wrapper, as
// long as the payload itself validates. The orchestrator's legacy endpoints
// and envelope metadata drift both land here; whether this stays a permanent
// policy or a migration shim is an explicit configuration decision
// (api.allow_bare_payloads), not a hard-coded one.
type UnwrapOptions struct {
	AllowBare bool
}

// envelopeProbe detects envelope presence without committing to its shape.
type envelopeProbe struct {
	Success       *bool           `json:"success"`
	Data          json.RawMessage `json:"data"`
	CorrelationID string          `json:"correlation_id"`
	Timestamp     string          `json:"timestamp"`
	Error         *ErrorBody      `json:"error"`
}

// Unwrap extracts and validates the payload of an enveloped response.
//
// An enveloped response (a JSON object with a "success" field) is handled
// strictly: success=false yields the orchestrator error, success=true
// validates Data against T. A response that is not a recognizable envelope is
// accepted only when opts.AllowBare is set and the raw body itself validates
// as T. The returned Envelope is nil when no envelope was present.
func Unwrap[T any, P interface {
	*T
	Validator
}](raw []byte, opts UnwrapOptions) (T, *Envelope, error) {
	var zero T

	var probe envelopeProbe
	envErr := json.Unmarshal(raw, &probe)

	if envErr == nil && probe.Success != nil {
		env := &Envelope{
			Success:       *probe.Success,
			Data:          probe.Data,
			CorrelationID: probe.CorrelationID,
			Timestamp:     probe.Timestamp,
			Error:         probe.Error,
		}
		if !env.Success {
			if env.Error != nil {
				return zero, env, fmt.Errorf("orchestrator error %s: %s", env.Error.Code, env.Error.Message)
			}
			return zero, env, fmt.Errorf("orchestrator reported failure without error detail")
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			// A successful envelope without a payload is a contract
			// violation, never a bare payload: re-parsing the envelope
			// bytes as T would let list wrappers validate as empty.
			return zero, env, &ValidationError{
				Resource: fmt.Sprintf("%T", zero),
				Fields:   []FieldError{{Field: "data", Reason: "missing payload in envelope"}},
			}
		}
		v, err := Parse[T, P](env.Data)
		if err != nil {
			return zero, env, err
		}
		return v, env, nil
	}

	if !opts.AllowBare {
		return zero, nil, &ValidationError{
			Resource: fmt.Sprintf("%T", zero),
			Fields:   []FieldError{{Field: "success", Reason: "response is not an envelope and bare payloads are disabled"}},
		}
	}

	v, err := Parse[T, P](raw)
	if err != nil {
		return zero, nil, err
	}
	return v, nil, nil
}

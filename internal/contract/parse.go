// Package contract is the single point where raw orchestrator JSON is accepted
// or rejected. Every payload type carries a Validate method enforcing required
// fields, ranges, and closed enum sets.
//
// Enum synchronization is backend-first: the orchestrator defines new enum
// values before this package recognizes them. Until updated, an unrecognized
// value fails validation for that record. This is deliberate fail-closed
// policy so drift surfaces early instead of silently rendering unknown states.
package contract

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Validator is implemented by every contract payload type.
type Validator interface {
	Validate() error
}

// Parse decodes raw JSON into T and validates it. This is the strict tier:
// data the dashboard cannot reasonably render without goes through Parse and
// the caller surfaces the error.
func Parse[T any, P interface {
	*T
	Validator
}](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %T: %w", v, err)
	}
	if err := P(&v).Validate(); err != nil {
		return v, err
	}
	return v, nil
}

// ParseOrDefault is the lenient tier for optional or cosmetic data: on any
// decode or validation failure it logs the full diagnostic and returns the
// caller-supplied default so rendering continues.
func ParseOrDefault[T any, P interface {
	*T
	Validator
}](logger *zap.Logger, raw []byte, def T) T {
	v, err := Parse[T, P](raw)
	if err != nil {
		logger.Warn("payload failed contract validation, using default",
			zap.Error(err),
			zap.ByteString("payload", truncate(raw, 512)),
		)
		return def
	}
	return v
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

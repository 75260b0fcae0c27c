package objects

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedOperation is matched by every *UnsupportedOperationError.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidPayload means an API payload did not have the expected shape.
	ErrInvalidPayload = errors.New("invalid payload")
)

// UnsupportedOperationError is returned when an entity cannot perform an
// operation, such as favoriting the current user. No request is sent.
type UnsupportedOperationError struct {
	Op     string
	Entity string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s cannot %s", e.Entity, e.Op)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

func unsupported(op string, v any) error {
	return &UnsupportedOperationError{Op: op, Entity: entityName(v)}
}

func entityName(v any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*objects.")
}

// decode unmarshals one entity payload.
func decode[T any](data json.RawMessage) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return out, nil
}

// decodeList splits a JSON array payload into its elements.
func decodeList(data json.RawMessage) ([]json.RawMessage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: expected array: %v", ErrInvalidPayload, err)
	}
	return items, nil
}

package basilisk

import (
	"errors"
	"fmt"
)

// Sentinels matchable with errors.Is. The concrete error types below carry
// the details.
var (
	ErrSchema        = errors.New("basilisk: invalid model schema")
	ErrMissingKey    = errors.New("basilisk: primary key not set")
	ErrNotFound      = errors.New("basilisk: not found")
	ErrNoDocument    = errors.New("basilisk: no such document")
	ErrNotConfigured = errors.New("basilisk: namespace not configured")
)

// SchemaError reports an invalid model definition: a resolved schema with
// zero or with more than one primary key field. It is raised at definition
// time and the model cannot be used.
type SchemaError struct {
	Model  string
	Reason string
}

func schemaErrf(model, format string, args ...any) error {
	return &SchemaError{Model: model, Reason: fmt.Sprintf(format, args...)}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("basilisk: model %s: %s", e.Model, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// MissingKeyError is returned by Record.Save when the primary key is empty
// and auto-generation was disabled. The caller must supply an id and retry.
type MissingKeyError struct {
	Model string
	Field string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("basilisk: model %s: primary key field %s is empty (set it or save with createID)", e.Model, e.Field)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrMissingKey
}

// NotFoundError is returned by Model.Get when the backing key does not
// exist. It is never converted into a default instance.
type NotFoundError struct {
	Model string
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("basilisk: model %s: no record under key %s", e.Model, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

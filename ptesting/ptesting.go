// Package ptesting provides chainable assertions over (value, error) results.
package ptesting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Result holds the two return values of a call.
type Result[T any] struct {
	v   T
	err error
}

// R wraps the results of a call, e.g. R(c.CreateOrder(ctx, req)).
func R[T any](v T, err error) *Result[T] {
	return &Result[T]{v: v, err: err}
}

// NoError stops the test if the call failed.
func (r *Result[T]) NoError(t *testing.T) *Value[T] {
	t.Helper()
	require.NoError(t, r.err)
	return &Value[T]{t: t, v: r.v}
}

// EqualError asserts the call failed with the given message.
func (r *Result[T]) EqualError(t *testing.T, msg string) {
	t.Helper()
	assert.EqualError(t, r.err, msg)
}

// ErrorAs stops the test unless the error can be assigned to target.
func (r *Result[T]) ErrorAs(t *testing.T, target any) {
	t.Helper()
	require.ErrorAs(t, r.err, target)
}

// ErrorIs stops the test unless the error matches target.
func (r *Result[T]) ErrorIs(t *testing.T, target error) {
	t.Helper()
	require.ErrorIs(t, r.err, target)
}

// Value is a successful result.
type Value[T any] struct {
	t *testing.T
	v T
}

// V returns the value.
func (v *Value[T]) V() T {
	return v.v
}

// Equal asserts the value equals expected.
func (v *Value[T]) Equal(expected T) *Value[T] {
	v.t.Helper()
	assert.Equal(v.t, expected, v.v)
	return v
}

// Do runs f with the value.
func (v *Value[T]) Do(f func(t *testing.T, it T)) *Value[T] {
	v.t.Helper()
	f(v.t, v.v)
	return v
}

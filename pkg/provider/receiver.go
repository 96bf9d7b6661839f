package provider

import (
	"fmt"
	"reflect"
)

// Receiver is filled by a Loader that knows nothing about the payload type.
// One receiver serves exactly one request.
type Receiver interface {
	// ReceiveFromWire decodes b into the receiver's type.
	ReceiveFromWire(b []byte, o Ownership) error

	// ReceiveDefault stores the zero value of the receiver's type.
	ReceiveDefault() error

	// ReceiveErased stores an already materialized value after checking its
	// dynamic type. On mismatch the receiver keeps its previous state.
	ReceiveErased(v any, o Ownership) error

	// ExpectedType returns the type the receiver accepts.
	ExpectedType() reflect.Type
}

// DecodeFunc decodes table bytes into a T. Implementations may alias b.
type DecodeFunc[T any] func(b []byte) (T, error)

// TypedReceiver is the Receiver implementation for a concrete type T.
type TypedReceiver[T any] struct {
	decode  DecodeFunc[T]
	payload Payload[T]
	filled  bool
}

var _ Receiver = (*TypedReceiver[int])(nil)

// NewReceiver returns a receiver for T. decode may be nil when the data is
// only ever delivered as materialized values.
func NewReceiver[T any](decode DecodeFunc[T]) *TypedReceiver[T] {
	return &TypedReceiver[T]{decode: decode}
}

func (r *TypedReceiver[T]) ReceiveFromWire(b []byte, o Ownership) error {
	if r.decode == nil {
		return fmt.Errorf("provider: no wire decoder for %v", r.ExpectedType())
	}
	v, err := r.decode(b)
	if err != nil {
		return err
	}
	r.payload = Payload[T]{value: v, ownership: o}
	r.filled = true
	return nil
}

func (r *TypedReceiver[T]) ReceiveDefault() error {
	var zero T
	r.payload = Own(zero)
	r.filled = true
	return nil
}

// ReceiveErased accepts v only when its dynamic type is exactly T. A value
// that merely implements an interface T is a mismatch.
func (r *TypedReceiver[T]) ReceiveErased(v any, o Ownership) error {
	if got := reflect.TypeOf(v); got != r.ExpectedType() {
		return &TypeMismatchError{Expected: r.ExpectedType(), Actual: got}
	}
	r.payload = Payload[T]{value: v.(T), ownership: o}
	r.filled = true
	return nil
}

func (r *TypedReceiver[T]) ExpectedType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Payload returns the received payload and whether anything was received.
func (r *TypedReceiver[T]) Payload() (Payload[T], bool) {
	return r.payload, r.filled
}

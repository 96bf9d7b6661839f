package provider

import (
	"sync"

	"github.com/dmitrymomot/i18ndata/pkg/locale"
)

// Ownership tells whether a payload views table storage or was freshly produced.
type Ownership uint8

const (
	// Borrowed payloads view bytes owned by a table. They stay valid as long as
	// the table is alive: forever for baked tables, until Release for leased ones.
	Borrowed Ownership = iota

	// Owned payloads do not reference any table.
	Owned
)

func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}
	return "borrowed"
}

// Payload is a decoded value together with its ownership tag.
type Payload[T any] struct {
	value     T
	ownership Ownership
}

// Borrow wraps a value that views table storage.
func Borrow[T any](v T) Payload[T] {
	return Payload[T]{value: v, ownership: Borrowed}
}

// Own wraps a freshly produced value.
func Own[T any](v T) Payload[T] {
	return Payload[T]{value: v, ownership: Owned}
}

// Get returns the value.
func (p Payload[T]) Get() T { return p.value }

// Ownership returns the ownership tag.
func (p Payload[T]) Ownership() Ownership { return p.ownership }

// IsBorrowed reports whether the value views table storage.
func (p Payload[T]) IsBorrowed() bool { return p.ownership == Borrowed }

// Metadata describes how a request was satisfied.
type Metadata struct {
	// Locale is the candidate that produced the payload. It can be less
	// specific than the requested locale.
	Locale locale.ID

	// Version is the data version tag reported by the source.
	Version string
}

// Request asks for the data of one key in one locale.
type Request struct {
	Key           DataKey
	Locale        locale.ID
	AllowFallback bool
}

// NewRequest builds a request with fallback enabled.
func NewRequest(key DataKey, id locale.ID) Request {
	return Request{Key: key, Locale: id, AllowFallback: true}
}

// Response is the typed result of Load.
type Response[T any] struct {
	Payload  Payload[T]
	Metadata Metadata

	release func()
	once    sync.Once
}

// Release gives back any lease held on the source table.
// It is safe to call more than once; borrowed payloads must not be used afterwards.
func (r *Response[T]) Release() {
	r.once.Do(func() {
		if r.release != nil {
			r.release()
		}
	})
}

package toggle

import (
	"fmt"
	"reflect"
)

// DiscriminantKey is the reserved key that switches a section on or off.
const DiscriminantKey = "enable"

// Enable is a section that is either on, holding a complete T, or off.
//
// The zero value is off. Values are immutable once constructed; use On and
// Off to build them.
type Enable[T any] struct {
	value T
	on    bool
}

// On returns an enabled section holding v.
func On[T any](v T) Enable[T] {
	return Enable[T]{value: v, on: true}
}

// Off returns a disabled section.
func Off[T any]() Enable[T] {
	return Enable[T]{}
}

// IsEnabled reports whether the section is on.
func (e Enable[T]) IsEnabled() bool {
	return e.on
}

// Get returns the payload and true when the section is on.
// When it is off the second result is false and the first must be ignored.
func (e Enable[T]) Get() (T, bool) {
	if !e.on {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Ref returns a pointer to a copy of the payload, or nil when the section is off.
func (e Enable[T]) Ref() *T {
	if !e.on {
		return nil
	}
	v := e.value
	return &v
}

// Must returns the payload and panics with ErrDisabled when the section is off.
func (e Enable[T]) Must() T {
	if !e.on {
		panic(ErrDisabled)
	}
	return e.value
}

// String renders the section for debugging.
func (e Enable[T]) String() string {
	if !e.on {
		return "off"
	}
	return fmt.Sprintf("on(%+v)", e.value)
}

// payload exposes the held value to Document's section walk.
func (e Enable[T]) payload() reflect.Value {
	if !e.on {
		return reflect.Value{}
	}
	return reflect.ValueOf(e.value)
}

// payloadCarrier is the unexported side of Toggle used for reflection walks.
type payloadCarrier interface {
	payload() reflect.Value
}

package record

import (
	"context"
	"reflect"

	"github.com/kbukum/recordkit/errors"
)

// Open is the typed form of (*Registry).Open. A payload that is not a T is
// a contract violation; the holder taken for the call is released first.
//
//	radio := record.Open[*Radio](r, record.Names.Radio)
//	defer r.Close(record.Names.Radio)
func Open[T any](r *Registry, name string) T {
	v := r.Open(name)
	t, err := as[T](name, v)
	if err != nil {
		r.Close(name)
		r.fatal("open", name, err)
	}
	return t
}

// OpenContext is the typed form of (*Registry).OpenContext.
func OpenContext[T any](ctx context.Context, r *Registry, name string) (T, error) {
	var zero T
	v, err := r.OpenContext(ctx, name)
	if err != nil {
		return zero, err
	}
	t, appErr := as[T](name, v)
	if appErr != nil {
		r.Close(name)
		r.fatal("open", name, appErr)
	}
	return t, nil
}

// as converts a payload to T. A nil payload converts to the zero value of
// any T that can be nil.
func as[T any](name string, v any) (T, *errors.AppError) {
	var zero T
	if t, ok := v.(T); ok {
		return t, nil
	}
	if v == nil && nilable(reflect.TypeFor[T]()) {
		return zero, nil
	}
	return zero, errors.TypeMismatch(name, zero, v)
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

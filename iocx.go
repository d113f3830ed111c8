/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package iocx

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/builder"
	"dirpx.dev/iocx/config"
)

var (
	// ErrNilConstructor is returned when a nil constructor is provided.
	ErrNilConstructor = errors.New("iocx: nil constructor provided")
	// ErrDecoratedInstanceMissing is returned when a decorator activator is
	// invoked without the decorated-instance parameter. It indicates the
	// decorator registration was activated outside the wiring pass.
	ErrDecoratedInstanceMissing = errors.New("iocx: decorated instance parameter missing")
)

// TypeMismatchError reports that a resolved instance does not have the
// requested Go type.
type TypeMismatchError struct {
	// Expected is the requested type.
	Expected reflect.Type
	// Got is the instance that was actually produced.
	Got any
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("iocx: type mismatch: expected %s, got %T", e.Expected, e.Got)
}

// New creates an empty builder configured by opts.
func New(opts ...config.Option) apis.Builder {
	return builder.New(opts...)
}

// typeOf returns the reflect.Type of T, interfaces included.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ServiceOf returns the plain typed service for T.
func ServiceOf[T any]() apis.TypedService {
	return apis.TypedService{Type: typeOf[T]()}
}

// KeyedOf returns the keyed service for T under key.
func KeyedOf[T any](key string) apis.KeyedService {
	return apis.KeyedService{Key: key, Type: typeOf[T]()}
}

// DecoratorOf returns the decorator service marking T as decorated.
func DecoratorOf[T any]() apis.DecoratorService {
	return apis.DecoratorService{Decorated: typeOf[T]()}
}

// Resolve activates the default registration for T and asserts the result.
func Resolve[T any](ctx apis.Context) (T, error) {
	return assertInstance[T](ctx.Resolve(ServiceOf[T]()))
}

// ResolveKeyed activates the default registration for T under key.
func ResolveKeyed[T any](ctx apis.Context, key string) (T, error) {
	return assertInstance[T](ctx.Resolve(KeyedOf[T](key)))
}

// assertInstance narrows a resolved instance to T.
func assertInstance[T any](instance any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{Expected: typeOf[T](), Got: instance}
	}
	return v, nil
}

// Provide wraps a constructor into a registration. When no services are
// given, the registration offers the plain typed service for T.
func Provide[T any](fn func(ctx apis.Context) (T, error), services ...apis.Service) (*apis.Registration, error) {
	if fn == nil {
		return nil, ErrNilConstructor
	}
	if len(services) == 0 {
		services = []apis.Service{ServiceOf[T]()}
	}
	act := apis.ActivatorFunc(func(ctx apis.Context, _ []apis.Parameter) (any, error) {
		return fn(ctx)
	})
	return apis.NewRegistration(act, services...)
}

// ProvideInstance wraps an existing value into a registration. When no
// services are given, the registration offers the plain typed service for T.
func ProvideInstance[T any](instance T, services ...apis.Service) (*apis.Registration, error) {
	if len(services) == 0 {
		services = []apis.Service{ServiceOf[T]()}
	}
	act := apis.ActivatorFunc(func(apis.Context, []apis.Parameter) (any, error) {
		return instance, nil
	})
	return apis.NewRegistration(act, services...)
}

// ProvideDecorator wraps a decorating function into a decorator
// registration for T. The wiring pass hands wrap the inner instance on
// every activation of the decorated service.
func ProvideDecorator[T any](wrap func(ctx apis.Context, inner T) (T, error)) (*apis.Registration, error) {
	if wrap == nil {
		return nil, ErrNilConstructor
	}
	act := apis.ActivatorFunc(func(ctx apis.Context, params []apis.Parameter) (any, error) {
		raw, ok := apis.ParameterValue(params, apis.DecoratedParameter)
		if !ok {
			return nil, ErrDecoratedInstanceMissing
		}
		inner, ok := raw.(T)
		if !ok {
			return nil, &TypeMismatchError{Expected: typeOf[T](), Got: raw}
		}
		return wrap(ctx, inner)
	})
	return apis.NewRegistration(act, DecoratorOf[T]())
}

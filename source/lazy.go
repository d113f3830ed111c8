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

package source

import (
	"reflect"

	"dirpx.dev/iocx/apis"
	uref "dirpx.dev/iocx/utils/reflect"
)

var lazyProbe = reflect.TypeOf(apis.Lazy[struct{}]{})

// NewLazySource creates the adapter serving *Lazy[T] requests: a handle
// whose first Get resolves T through the container and memoizes the
// outcome.
func NewLazySource() apis.Source {
	return &lazySource{}
}

// lazySource serves deferred-resolution requests. Only the pointer form
// *Lazy[T] is served; the memoizing state lives behind the pointer.
type lazySource struct{}

// Ensure lazySource implements apis.Source.
var _ apis.Source = (*lazySource)(nil)

// RegistrationsFor synthesizes a registration for *Lazy[T] requests.
func (*lazySource) RegistrationsFor(s apis.Service, _ apis.Accessor) []*apis.Registration {
	ts, ok := s.(apis.TypedService)
	if !ok || ts.Type == nil || ts.Type.Kind() != reflect.Ptr {
		return nil
	}
	lazyType := ts.Type.Elem()
	if !uref.Instantiates(lazyType, lazyProbe) {
		return nil
	}
	newField, ok := lazyType.FieldByName("New")
	if !ok || newField.Type.Kind() != reflect.Func || newField.Type.NumOut() != 2 {
		return nil
	}
	target := newField.Type.Out(0)

	act := apis.ActivatorFunc(func(ctx apis.Context, _ []apis.Parameter) (any, error) {
		resolver := reflect.MakeFunc(newField.Type, func(_ []reflect.Value) []reflect.Value {
			instance, err := ctx.Resolve(apis.TypedService{Type: target})
			if err == nil {
				var v reflect.Value
				if v, err = instanceValue(instance, target); err == nil {
					return []reflect.Value{v, errValue(nil)}
				}
			}
			return []reflect.Value{reflect.Zero(target), errValue(err)}
		})

		lazy := reflect.New(lazyType)
		lazy.Elem().FieldByName("New").Set(resolver)
		return lazy.Interface(), nil
	})
	return generated(s, act)
}

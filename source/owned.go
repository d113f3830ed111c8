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
	"io"
	"reflect"
	"sync"

	"dirpx.dev/iocx/apis"
	uref "dirpx.dev/iocx/utils/reflect"
)

var ownedProbe = reflect.TypeOf(apis.Owned[struct{}]{})

// NewOwnedSource creates the adapter serving Owned[T] requests: the
// resolved T paired with a release hook that closes the instance when it
// implements io.Closer.
func NewOwnedSource() apis.Source {
	return &ownedSource{}
}

// ownedSource serves scoped-disposal wrapper requests.
type ownedSource struct{}

// Ensure ownedSource implements apis.Source.
var _ apis.Source = (*ownedSource)(nil)

// RegistrationsFor synthesizes a registration for Owned[T] requests.
func (*ownedSource) RegistrationsFor(s apis.Service, _ apis.Accessor) []*apis.Registration {
	ts, ok := s.(apis.TypedService)
	if !ok || !uref.Instantiates(ts.Type, ownedProbe) {
		return nil
	}
	valueField, ok := ts.Type.FieldByName("Value")
	if !ok {
		return nil
	}
	target := valueField.Type

	act := apis.ActivatorFunc(func(ctx apis.Context, _ []apis.Parameter) (any, error) {
		instance, err := ctx.Resolve(apis.TypedService{Type: target})
		if err != nil {
			return nil, err
		}
		v, err := instanceValue(instance, target)
		if err != nil {
			return nil, err
		}

		var once sync.Once
		release := func() {
			once.Do(func() {
				if closer, ok := instance.(io.Closer); ok {
					_ = closer.Close()
				}
			})
		}

		owned := reflect.New(ts.Type).Elem()
		owned.FieldByName("Value").Set(v)
		owned.FieldByName("Release").Set(reflect.ValueOf(release))
		return owned.Interface(), nil
	})
	return generated(s, act)
}

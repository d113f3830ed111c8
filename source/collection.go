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

// NewCollectionSource creates the adapter serving []T requests: every
// registration offering T, activated in registration order.
func NewCollectionSource() apis.Source {
	return &collectionSource{}
}

// collectionSource serves slice requests over plain typed services.
// An unregistered element type yields an empty slice, not an error.
type collectionSource struct{}

// Ensure collectionSource implements apis.Source.
var _ apis.Source = (*collectionSource)(nil)

// RegistrationsFor synthesizes a registration for []T requests.
func (*collectionSource) RegistrationsFor(s apis.Service, _ apis.Accessor) []*apis.Registration {
	ts, ok := s.(apis.TypedService)
	if !ok {
		return nil
	}
	elem, ok := uref.SliceElem(ts.Type)
	if !ok {
		return nil
	}

	act := apis.ActivatorFunc(func(ctx apis.Context, _ []apis.Parameter) (any, error) {
		regs := ctx.Registry().RegistrationsFor(apis.TypedService{Type: elem})
		out := reflect.MakeSlice(ts.Type, 0, len(regs))
		for _, reg := range regs {
			instance, err := ctx.ResolveRegistration(reg)
			if err != nil {
				return nil, err
			}
			v, err := instanceValue(instance, elem)
			if err != nil {
				return nil, err
			}
			out = reflect.Append(out, v)
		}
		return out.Interface(), nil
	})
	return generated(s, act)
}

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

// NewIndexedSource creates the adapter serving map[K]T requests (K of
// string kind): every keyed registration of T, indexed by its key.
func NewIndexedSource() apis.Source {
	return &indexedSource{}
}

// indexedSource serves keyed-collection requests. When several
// registrations share a key, the most recently added wins.
type indexedSource struct{}

// Ensure indexedSource implements apis.Source.
var _ apis.Source = (*indexedSource)(nil)

// RegistrationsFor synthesizes a registration for map[K]T requests.
func (*indexedSource) RegistrationsFor(s apis.Service, _ apis.Accessor) []*apis.Registration {
	ts, ok := s.(apis.TypedService)
	if !ok {
		return nil
	}
	keyType, elem, ok := uref.IndexShape(ts.Type)
	if !ok {
		return nil
	}

	act := apis.ActivatorFunc(func(ctx apis.Context, _ []apis.Parameter) (any, error) {
		out := reflect.MakeMap(ts.Type)
		for _, reg := range ctx.Registry().Registrations() {
			for _, svc := range reg.Services() {
				ks, ok := svc.(apis.KeyedService)
				if !ok || ks.Type != elem {
					continue
				}
				instance, err := ctx.ResolveRegistration(reg)
				if err != nil {
					return nil, err
				}
				v, err := instanceValue(instance, elem)
				if err != nil {
					return nil, err
				}
				out.SetMapIndex(reflect.ValueOf(ks.Key).Convert(keyType), v)
			}
		}
		return out.Interface(), nil
	})
	return generated(s, act)
}

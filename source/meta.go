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
	"maps"
	"reflect"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/container"
	uref "dirpx.dev/iocx/utils/reflect"
)

var metaProbe = reflect.TypeOf(apis.Meta[struct{}]{})

// NewMetadataSource creates the adapter serving Meta[T] requests: the
// resolved T paired with a copy of the producing registration's metadata.
func NewMetadataSource() apis.Source {
	return &metadataSource{}
}

// metadataSource serves metadata-pair requests.
type metadataSource struct{}

// Ensure metadataSource implements apis.Source.
var _ apis.Source = (*metadataSource)(nil)

// RegistrationsFor synthesizes a registration for Meta[T] requests.
func (*metadataSource) RegistrationsFor(s apis.Service, _ apis.Accessor) []*apis.Registration {
	ts, ok := s.(apis.TypedService)
	if !ok || !uref.Instantiates(ts.Type, metaProbe) {
		return nil
	}
	valueField, ok := ts.Type.FieldByName("Value")
	if !ok {
		return nil
	}
	target := valueField.Type

	act := apis.ActivatorFunc(func(ctx apis.Context, _ []apis.Parameter) (any, error) {
		targetService := apis.TypedService{Type: target}
		reg, ok := ctx.Registry().TryGetRegistration(targetService)
		if !ok {
			return nil, &container.DependencyResolutionError{
				Service: targetService,
				Err:     container.ErrServiceNotRegistered,
			}
		}
		instance, err := ctx.ResolveRegistration(reg)
		if err != nil {
			return nil, err
		}
		v, err := instanceValue(instance, target)
		if err != nil {
			return nil, err
		}

		meta := reflect.New(ts.Type).Elem()
		meta.FieldByName("Value").Set(v)
		meta.FieldByName("Metadata").Set(reflect.ValueOf(maps.Clone(reg.Metadata())))
		return meta.Interface(), nil
	})
	return generated(s, act)
}

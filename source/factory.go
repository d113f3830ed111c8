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
	"dirpx.dev/iocx/container"
	uref "dirpx.dev/iocx/utils/reflect"
)

// NewFactorySource creates the adapter serving generated-factory requests:
// functions of shape func(args...) (T, error) or func(args...) T. Each call
// resolves the target fresh, forwarding the arguments as positional
// activation parameters.
func NewFactorySource() apis.Source {
	return &factorySource{}
}

// factorySource serves function-to-factory requests. The error-less form
// panics on resolution failure, since the shape leaves no error channel.
type factorySource struct{}

// Ensure factorySource implements apis.Source.
var _ apis.Source = (*factorySource)(nil)

// RegistrationsFor synthesizes a registration for factory-function requests.
func (*factorySource) RegistrationsFor(s apis.Service, _ apis.Accessor) []*apis.Registration {
	ts, ok := s.(apis.TypedService)
	if !ok {
		return nil
	}
	target, hasErr, ok := uref.FactoryShape(ts.Type)
	if !ok {
		return nil
	}

	act := apis.ActivatorFunc(func(ctx apis.Context, _ []apis.Parameter) (any, error) {
		factory := reflect.MakeFunc(ts.Type, func(args []reflect.Value) []reflect.Value {
			params := make([]apis.Parameter, len(args))
			for i, arg := range args {
				params[i] = apis.Parameter{Value: arg.Interface()}
			}

			v, err := produce(ctx, target, params)
			if hasErr {
				return []reflect.Value{v, errValue(err)}
			}
			if err != nil {
				panic(err)
			}
			return []reflect.Value{v}
		})
		return factory.Interface(), nil
	})
	return generated(s, act)
}

// produce resolves the factory target with the given parameters, returning
// the zero value of target alongside any error.
func produce(ctx apis.Context, target reflect.Type, params []apis.Parameter) (reflect.Value, error) {
	targetService := apis.TypedService{Type: target}
	reg, ok := ctx.Registry().TryGetRegistration(targetService)
	if !ok {
		return reflect.Zero(target), &container.DependencyResolutionError{
			Service: targetService,
			Err:     container.ErrServiceNotRegistered,
		}
	}
	instance, err := ctx.ResolveRegistration(reg, params...)
	if err != nil {
		return reflect.Zero(target), err
	}
	v, err := instanceValue(instance, target)
	if err != nil {
		return reflect.Zero(target), err
	}
	return v, nil
}

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

// Package decorator implements the build-time decorator wiring pass. For
// every service type decorated by at least one decorator registration, it
// installs a single activation interceptor on the decorated (base)
// registration. The interceptor resolves and applies the decorator chain
// on every future activation, before the instance reaches any caller.
package decorator

import (
	"reflect"

	"dirpx.dev/iocx/apis"
)

// Wire runs the wiring pass against c. It is idempotent per container:
// repeated passes (e.g. via the legacy Update path) install each
// interceptor at most once. A decorator whose target type has no base
// registration is inert and skipped silently.
func Wire(c apis.Container) {
	for t := range decoratedTypes(c.Registry()) {
		base, ok := c.Registry().TryGetRegistration(apis.TypedService{Type: t})
		if !ok {
			// No undecorated target; nothing to intercept.
			continue
		}
		if !c.ClaimDecoration(t) {
			continue
		}
		base.AddInterceptor(chainInterceptor(t))
	}
}

// decoratedTypes collects the distinct set of decorated service types
// declared across every registration.
func decoratedTypes(reg apis.Registry) map[reflect.Type]bool {
	types := make(map[reflect.Type]bool)
	for _, r := range reg.Registrations() {
		for _, s := range r.Services() {
			if ds, ok := s.(apis.DecoratorService); ok && ds.Decorated != nil {
				types[ds.Decorated] = true
			}
		}
	}
	return types
}

// chainInterceptor builds the activation interceptor for decorated type t.
// It threads the raw instance through every decorator registration for t,
// in registration order, handing each the current instance under the
// DecoratedParameter activation parameter.
func chainInterceptor(t reflect.Type) apis.Interceptor {
	return func(ctx apis.Context, instance any) (any, error) {
		for _, dec := range ctx.Registry().RegistrationsFor(apis.DecoratorService{Decorated: t}) {
			wrapped, err := ctx.ResolveRegistration(dec, apis.Parameter{
				Name:  apis.DecoratedParameter,
				Value: instance,
			})
			if err != nil {
				return nil, err
			}
			instance = wrapped
		}
		return instance, nil
	}
}

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

// Package iocx is the registration-and-resolution core of an IoC
// container. It turns a set of deferred component declarations into an
// immutable, queryable registry capable of producing fully-wired object
// graphs, with lifetime policies carried as data, transparent decoration
// of resolved instances, and dynamically-generated registrations for
// open-shaped service requests.
//
// # Design
//
// The core splits into a handful of small layers:
//
//   - apis: the contracts. Service identities (typed, keyed, decorator,
//     well-known markers), Registration, Activator, the Registry and
//     Container interfaces, and the Builder commit protocol. Everything
//     else depends only on apis.
//
//   - registry: the component registry. An explicit index keyed by every
//     service a registration offers, backed by an ordered chain of
//     registration sources that synthesize registrations on demand for
//     otherwise-unregistered services. Source output is cached per
//     service, so a service resolved once presents a stable view forever.
//
//   - source: the default adapters. Requests shaped like map[K]V, []T,
//     Owned[T], Meta[T], *Lazy[T] or factory functions are served by
//     generated registrations whose activators resolve the real targets
//     through the activation context. Adapters compose through the
//     registry: *Lazy[Meta[T]] works with no special casing.
//
//   - container: the committed container. It owns the activation path
//     (activator first, then the registration's interceptor chain, in
//     order), the shared properties bag, and the record of decorators
//     already wired onto its registry.
//
//   - decorator: the build-time wiring pass. For every type decorated by
//     at least one decorator registration, one interceptor is installed
//     on the base registration; the interceptor applies the decorator
//     chain on every future activation. Wiring is idempotent per
//     container, however many builds run against it.
//
//   - startup: the eager-activation pass. Registrations offering the
//     startable marker are activated and started; registrations offering
//     the auto-activate marker are activated and discarded. Each is
//     processed at most once, success or failure.
//
//   - builder: the commit protocol. Configuration callbacks accumulate on
//     a builder and are replayed, in order, exactly once: the built latch
//     is a single compare-and-set, so concurrent Build calls cannot both
//     commit. Configuration is deliberately non-transactional: a failing
//     callback leaves earlier registrations in place.
//
// # Usage
//
// A typical composition root does:
//
//	b := iocx.New()
//	b.RegisterCallback(func(reg apis.Registry) error {
//		r, err := iocx.Provide(func(ctx apis.Context) (*Server, error) {
//			store, err := iocx.Resolve[*Store](ctx)
//			if err != nil {
//				return nil, err
//			}
//			return NewServer(store), nil
//		})
//		if err != nil {
//			return err
//		}
//		return reg.Register(r)
//	})
//	c, err := b.Build(apis.BuildOptionsNone)
//	if err != nil {
//		return err
//	}
//	srv, err := iocx.Resolve[*Server](c)
//
// The root package offers generic conveniences (ServiceOf, KeyedOf,
// Resolve, Provide, ProvideInstance, ProvideDecorator) over the apis
// surface. Full registration DSLs, constructor injection and lifetime
// scope trees belong to higher layers; they consume the Registry and
// Container contracts defined here.
//
// # Concurrency model
//
// All operations are synchronous on caller goroutines; the core launches
// nothing in the background. The builder's latch is atomic, the registry
// serializes source evaluation and cache insertion behind one mutex, and
// containers are safe for concurrent resolution once Build returns.
// Callers never take locks themselves.
package iocx

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

package apis

import "reflect"

// Startable is the capability contract behind StartableService. Instances
// of startable registrations are started exactly once at build time.
type Startable interface {
	// Start performs eager initialization. An error aborts the build.
	Start() error
}

// Context is the resolution context handed to activators and interceptors.
// All operations are synchronous on the caller goroutine.
type Context interface {
	// Resolve activates the default registration for s.
	Resolve(s Service) (any, error)

	// ResolveRegistration activates r directly, applying its activation
	// interceptors, with optional activation parameters.
	ResolveRegistration(r *Registration, params ...Parameter) (any, error)

	// Registry returns the registry backing this context.
	Registry() Registry
}

// Container is a committed registry plus the shared properties bag.
// Registrations are append-only after commit; the legacy Update path adds
// registrations but never removes or replaces them.
type Container interface {
	Context

	// Properties returns the shared user properties map carried over from
	// the builder that produced this container.
	Properties() map[string]any

	// ClaimDecoration records that decorator wiring for the given decorated
	// type has been installed on this container's registry. It returns false
	// if the type was already claimed, making repeated wiring passes
	// idempotent.
	ClaimDecoration(t reflect.Type) bool
}

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

// Accessor exposes the registrations currently visible for a service while
// a Source is being evaluated. Sources must use the accessor for lookups
// during evaluation instead of calling back into the registry's public
// methods; the accessor runs inside the registry's evaluation critical
// section and supports source composition.
type Accessor func(s Service) []*Registration

// Source synthesizes registrations on demand for otherwise-unregistered
// services. The registry tries sources in insertion order; the first source
// producing any registrations for a service wins, and its output is cached.
type Source interface {
	// RegistrationsFor returns registrations satisfying s, or nil when the
	// source does not handle s. Implementations must be safe for repeated
	// calls and must not retain acc beyond the call.
	RegistrationsFor(s Service, acc Accessor) []*Registration
}

// Registry owns the committed set of registrations, the per-service index,
// and the ordered registration-source chain. Implementations must be safe
// for concurrent use and must present a stable view of a service once it
// has been resolved.
type Registry interface {
	// Register adds a registration to the explicit index, keyed by every
	// service it offers. The most recently added registration for a service
	// is that service's default.
	Register(r *Registration) error

	// AddSource appends a registration source. Only services not yet
	// evaluated are affected; cached services never re-resolve.
	AddSource(s Source)

	// TryGetRegistration returns the default registration for s: the most
	// recently added explicit registration, or the first registration
	// generated by the first source that handles s.
	TryGetRegistration(s Service) (*Registration, bool)

	// RegistrationsFor returns every registration offering s, explicit
	// before generated, preserving insertion order. Source evaluation runs
	// at most once per distinct service.
	RegistrationsFor(s Service) []*Registration

	// IsRegistered reports whether at least one registration offers s,
	// evaluating sources if needed.
	IsRegistered(s Service) bool

	// Registrations returns a snapshot of all registrations, explicit and
	// generated, in insertion order.
	Registrations() []*Registration

	// Count returns the number of registrations currently held.
	Count() int
}

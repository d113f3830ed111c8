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

import (
	"errors"
	"strings"
	"sync"
)

var (
	// ErrNilActivator is returned when a registration is created without an activator.
	ErrNilActivator = errors.New("iocx(apis): nil activator provided")
	// ErrNoServices is returned when a registration is created offering no services.
	ErrNoServices = errors.New("iocx(apis): registration offers no services")
)

// Lifetime is the instance-sharing policy of a registration. The core
// carries it as data; enforcement belongs to lifetime scopes.
type Lifetime int

const (
	// LifetimePerDependency creates a fresh instance per resolution. Zero value.
	LifetimePerDependency Lifetime = iota
	// LifetimeSingleton shares one instance for the container's life.
	LifetimeSingleton
	// LifetimePerScope shares one instance per lifetime scope.
	LifetimePerScope
	// LifetimePerMatchingScope shares one instance per scope matching a tag.
	LifetimePerMatchingScope
)

// String returns the lifetime name.
func (l Lifetime) String() string {
	switch l {
	case LifetimePerDependency:
		return "per-dependency"
	case LifetimeSingleton:
		return "singleton"
	case LifetimePerScope:
		return "per-scope"
	case LifetimePerMatchingScope:
		return "per-matching-scope"
	default:
		return "unknown"
	}
}

// Parameter is a named activation argument passed to an Activator.
type Parameter struct {
	// Name identifies the parameter. Positional parameters use "".
	Name string
	// Value is the argument payload.
	Value any
}

// DecoratedParameter is the well-known parameter name under which the
// decorator wiring pass hands the inner (already activated) instance to a
// decorator registration's activator.
const DecoratedParameter = "iocx.decorated"

// ParameterValue returns the value of the first parameter named name.
func ParameterValue(params []Parameter, name string) (any, bool) {
	for _, p := range params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Activator produces an instance for a registration. Construction and
// injection mechanics live behind this interface; the core only invokes it.
type Activator interface {
	// Activate builds an instance using ctx for dependency resolution.
	Activate(ctx Context, params []Parameter) (any, error)
}

// ActivatorFunc adapts a plain function to an Activator.
type ActivatorFunc func(ctx Context, params []Parameter) (any, error)

// Activate implements Activator.
func (f ActivatorFunc) Activate(ctx Context, params []Parameter) (any, error) {
	return f(ctx, params)
}

// Interceptor rewrites an instance after raw activation and before it is
// returned to any caller. Interceptors attached to a registration run
// synchronously, in attachment order.
type Interceptor func(ctx Context, instance any) (any, error)

// Registration is a committed recipe for producing instances that satisfy
// one or more services. It is owned by the registry once registered; the
// user metadata map stays mutable, and the interceptor list and lifecycle
// flags are the only fields the core itself mutates after commit.
type Registration struct {
	services  []Service
	lifetime  Lifetime
	activator Activator
	metadata  map[string]any

	mu            sync.Mutex
	interceptors  []Interceptor
	started       bool
	autoActivated bool
}

// NewRegistration creates a registration offering the given services.
// The activator must be non-nil and at least one service is required.
func NewRegistration(activator Activator, services ...Service) (*Registration, error) {
	if activator == nil {
		return nil, ErrNilActivator
	}
	if len(services) == 0 {
		return nil, ErrNoServices
	}
	return &Registration{
		services:  append([]Service(nil), services...),
		activator: activator,
		metadata:  make(map[string]any),
	}, nil
}

// WithLifetime sets the lifetime policy. Intended for use before the
// registration is committed to a registry. Returns r for chaining.
func (r *Registration) WithLifetime(l Lifetime) *Registration {
	r.lifetime = l
	return r
}

// WithMetadata sets a user metadata entry. Returns r for chaining.
func (r *Registration) WithMetadata(key string, value any) *Registration {
	r.metadata[key] = value
	return r
}

// Services returns a copy of the services this registration offers.
func (r *Registration) Services() []Service {
	return append([]Service(nil), r.services...)
}

// Offers reports whether the registration offers the given service.
func (r *Registration) Offers(s Service) bool {
	for _, svc := range r.services {
		if svc == s {
			return true
		}
	}
	return false
}

// Lifetime returns the lifetime policy.
func (r *Registration) Lifetime() Lifetime {
	return r.lifetime
}

// Activator returns the registration's activator.
func (r *Registration) Activator() Activator {
	return r.activator
}

// Metadata returns the live user metadata map. Callers mutating it after
// commit must not do so concurrently with resolution reads of the same key.
func (r *Registration) Metadata() map[string]any {
	return r.metadata
}

// AddInterceptor appends an activation interceptor.
func (r *Registration) AddInterceptor(ic Interceptor) {
	if ic == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = append(r.interceptors, ic)
}

// Interceptors returns a snapshot of the interceptor list in attachment order.
func (r *Registration) Interceptors() []Interceptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Interceptor(nil), r.interceptors...)
}

// Started reports whether the startable pass already processed this
// registration. The flag is set whether the start attempt succeeded or
// failed, so a failed start is never retried.
func (r *Registration) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// MarkStarted records that the startable pass processed this registration.
func (r *Registration) MarkStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
}

// AutoActivated reports whether the auto-activate pass already processed
// this registration, successfully or not.
func (r *Registration) AutoActivated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.autoActivated
}

// MarkAutoActivated records that the auto-activate pass processed this
// registration.
func (r *Registration) MarkAutoActivated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoActivated = true
}

// String describes the registration by the services it offers.
func (r *Registration) String() string {
	if r == nil {
		return "<nil registration>"
	}
	names := make([]string, 0, len(r.services))
	for _, s := range r.services {
		names = append(names, s.String())
	}
	return "registration(" + strings.Join(names, ", ") + ")"
}

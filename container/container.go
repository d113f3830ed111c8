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

// Package container implements the committed container: a registry plus
// the shared properties bag, the activation path that threads instances
// through a registration's interceptor chain, and the registry-scoped
// record of already-wired decorators.
package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/config"
)

var (
	// ErrServiceNotRegistered indicates that no registration, explicit or
	// source-generated, offers the requested service.
	ErrServiceNotRegistered = errors.New("iocx(container): service not registered")
	// ErrActivationDepthExceeded indicates a resolution chain longer than
	// the configured maximum, which is treated as a circular activation.
	ErrActivationDepthExceeded = errors.New("iocx(container): activation depth exceeded")
	// ErrNilRegistration is returned when a nil registration is activated.
	ErrNilRegistration = errors.New("iocx(container): nil registration provided")
)

// DependencyResolutionError reports that a service could not be resolved.
// At least one of Service and Registration identifies the failing request;
// Err preserves the underlying cause.
type DependencyResolutionError struct {
	// Service is the requested service, when the failure is a lookup failure.
	Service apis.Service
	// Registration is the activated registration, when activation failed.
	Registration *apis.Registration
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DependencyResolutionError) Error() string {
	switch {
	case e.Registration != nil:
		return fmt.Sprintf("iocx(container): unable to activate %s: %v", e.Registration, e.Err)
	case e.Service != nil:
		return fmt.Sprintf("iocx(container): unable to resolve %s: %v", e.Service, e.Err)
	default:
		return fmt.Sprintf("iocx(container): resolution failed: %v", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *DependencyResolutionError) Unwrap() error {
	return e.Err
}

// New constructs a Container over reg, carrying props as the shared user
// properties map. A nil props map is replaced with an empty one.
func New(reg apis.Registry, props map[string]any, cfg apis.Config) *Container {
	if props == nil {
		props = make(map[string]any)
	}
	if cfg.MaxActivationDepth <= 0 {
		cfg.MaxActivationDepth = config.DefaultMaxActivationDepth
	}
	return &Container{
		reg:   reg,
		props: props,
		cfg:   cfg,
		wired: make(map[reflect.Type]bool),
	}
}

// Container is the apis.Container implementation. It is immutable with
// respect to registrations after commit, except through the legacy Update
// path which appends to the underlying registry.
type Container struct {
	// reg is the committed registry.
	reg apis.Registry
	// props is the shared user properties map from the builder.
	props map[string]any
	// cfg bounds activation chains.
	cfg apis.Config

	// mu guards wired.
	mu sync.Mutex
	// wired holds the decorated types whose interceptor is already installed
	// on this container's registry.
	wired map[reflect.Type]bool
}

// Ensure Container implements apis.Container.
var _ apis.Container = (*Container)(nil)

// Registry returns the committed registry.
func (c *Container) Registry() apis.Registry {
	return c.reg
}

// Properties returns the shared user properties map.
func (c *Container) Properties() map[string]any {
	return c.props
}

// ClaimDecoration records decorator wiring for t. It returns false when t
// was already claimed on this container, so repeated wiring passes against
// one registry install each interceptor at most once.
func (c *Container) ClaimDecoration(t reflect.Type) bool {
	if t == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wired[t] {
		return false
	}
	c.wired[t] = true
	return true
}

// Resolve activates the default registration for s.
func (c *Container) Resolve(s apis.Service) (any, error) {
	return c.rootContext().Resolve(s)
}

// ResolveRegistration activates r directly, applying its interceptors.
func (c *Container) ResolveRegistration(r *apis.Registration, params ...apis.Parameter) (any, error) {
	return c.rootContext().ResolveRegistration(r, params...)
}

// rootContext starts a fresh activation chain.
func (c *Container) rootContext() *resolveContext {
	return &resolveContext{owner: c, depth: 0}
}

// resolveContext is the apis.Context handed to activators and interceptors.
// Each nested resolution derives a child context with incremented depth, so
// circular activations terminate deterministically instead of growing the
// stack without bound.
type resolveContext struct {
	owner *Container
	depth int
}

// Ensure resolveContext implements apis.Context.
var _ apis.Context = (*resolveContext)(nil)

// Registry returns the registry backing this context.
func (rc *resolveContext) Registry() apis.Registry {
	return rc.owner.reg
}

// Resolve looks up the default registration for s and activates it.
func (rc *resolveContext) Resolve(s apis.Service) (any, error) {
	reg, ok := rc.owner.reg.TryGetRegistration(s)
	if !ok {
		return nil, &DependencyResolutionError{Service: s, Err: ErrServiceNotRegistered}
	}
	return rc.ResolveRegistration(reg)
}

// ResolveRegistration invokes r's activator and then its interceptor chain,
// in attachment order, returning the final instance.
func (rc *resolveContext) ResolveRegistration(r *apis.Registration, params ...apis.Parameter) (any, error) {
	if r == nil {
		return nil, &DependencyResolutionError{Err: ErrNilRegistration}
	}
	if rc.depth >= rc.owner.cfg.MaxActivationDepth {
		return nil, &DependencyResolutionError{Registration: r, Err: ErrActivationDepthExceeded}
	}
	child := &resolveContext{owner: rc.owner, depth: rc.depth + 1}

	instance, err := r.Activator().Activate(child, params)
	if err != nil {
		return nil, &DependencyResolutionError{Registration: r, Err: err}
	}
	for _, ic := range r.Interceptors() {
		instance, err = ic(child, instance)
		if err != nil {
			return nil, &DependencyResolutionError{Registration: r, Err: err}
		}
	}
	return instance, nil
}

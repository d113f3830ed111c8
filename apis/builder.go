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

	"github.com/google/uuid"
)

// ErrNilConfigurationFunc is returned when a DeferredCallback is created
// from a nil configuration function.
var ErrNilConfigurationFunc = errors.New("iocx(apis): nil configuration function provided")

// BuildOptions is a bitmask controlling parts of the commit sequence.
// Flags are independent and combinable.
type BuildOptions int

const (
	// BuildOptionsNone runs the full commit sequence.
	BuildOptionsNone BuildOptions = 0
	// ExcludeDefaultModules skips installing the default registration
	// source adapters before user configuration runs.
	ExcludeDefaultModules BuildOptions = 1 << iota
	// IgnoreStartableComponents skips the startup pass entirely.
	IgnoreStartableComponents
)

// DeferredCallback is one unit of deferred configuration: a callback that
// mutates a registry when the builder commits. Each callback carries a
// unique identity so callers can tell handles apart.
type DeferredCallback struct {
	id string
	fn func(Registry) error
}

// NewDeferredCallback wraps a configuration function in an identity-bearing
// callback handle.
func NewDeferredCallback(fn func(Registry) error) (*DeferredCallback, error) {
	if fn == nil {
		return nil, ErrNilConfigurationFunc
	}
	return &DeferredCallback{id: uuid.NewString(), fn: fn}, nil
}

// ID returns the callback's unique identity.
func (c *DeferredCallback) ID() string {
	return c.id
}

// Call applies the configuration to reg.
func (c *DeferredCallback) Call(reg Registry) error {
	return c.fn(reg)
}

// Builder accumulates deferred configuration and commits it exactly once
// to produce a Container. A builder that has committed is spent; further
// Build or Update calls fail.
type Builder interface {
	// RegisterCallback appends a configuration callback to the pending
	// queue and returns its handle. No registry is touched yet.
	RegisterCallback(fn func(Registry) error) (*DeferredCallback, error)

	// RegisterBuildCallback appends a callback invoked with the finished
	// container after a successful commit, in registration order.
	RegisterBuildCallback(fn func(Container)) error

	// Properties returns the shared user properties map propagated to the
	// produced container. Read/write before Build.
	Properties() map[string]any

	// Build commits the accumulated configuration into a new container.
	Build(opts BuildOptions) (Container, error)

	// Update is the legacy path: it commits the accumulated configuration
	// into an existing container's registry, appending registrations in
	// place. The build-once latch applies to the builder, not the target.
	Update(c Container, opts BuildOptions) error
}

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

// Package builder implements the accumulate-then-commit protocol: deferred
// configuration callbacks queued on a builder are applied exactly once to
// produce a container. The commit sequence installs the default adapter
// chain, replays configuration in order, wires decorators, runs the
// startup pass and finally notifies build callbacks.
package builder

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/config"
	"dirpx.dev/iocx/container"
	"dirpx.dev/iocx/decorator"
	"dirpx.dev/iocx/registry"
	"dirpx.dev/iocx/source"
	"dirpx.dev/iocx/startup"
)

var (
	// ErrAlreadyBuilt is returned when a builder commits a second time.
	// The builder is spent; retrying cannot succeed.
	ErrAlreadyBuilt = errors.New("iocx(builder): builder already built")
	// ErrNilCallback is returned when a nil callback is registered.
	ErrNilCallback = errors.New("iocx(builder): nil callback provided")
	// ErrNilContainer is returned when Update targets a nil container.
	ErrNilContainer = errors.New("iocx(builder): nil container provided")
)

// New creates an empty builder configured by opts.
func New(opts ...config.Option) apis.Builder {
	return &builder{
		cfg:   config.NewConfig(opts...),
		props: make(map[string]any),
	}
}

// builder is the apis.Builder implementation. The built latch is a single
// compare-and-set so two goroutines racing Build cannot both commit.
type builder struct {
	// cfg bounds activation and source evaluation in the produced container.
	cfg apis.Config
	// built is the commit-once latch.
	built atomic.Bool

	// mu guards the queues below until the latch flips.
	mu sync.Mutex
	// callbacks is the pending configuration queue, in registration order.
	callbacks []*apis.DeferredCallback
	// buildCallbacks observe the finished container, in registration order.
	buildCallbacks []func(apis.Container)
	// props is the shared user properties map handed to the container.
	props map[string]any
}

// Ensure builder implements apis.Builder.
var _ apis.Builder = (*builder)(nil)

// RegisterCallback appends a configuration callback to the pending queue
// and returns its identity handle. No registry is touched until commit.
func (b *builder) RegisterCallback(fn func(apis.Registry) error) (*apis.DeferredCallback, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	cb, err := apis.NewDeferredCallback(fn)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, cb)
	return cb, nil
}

// RegisterBuildCallback appends a callback invoked with the finished
// container after a successful commit.
func (b *builder) RegisterBuildCallback(fn func(apis.Container)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buildCallbacks = append(b.buildCallbacks, fn)
	return nil
}

// Properties returns the shared user properties map. Read/write before Build.
func (b *builder) Properties() map[string]any {
	return b.props
}

// Build commits the accumulated configuration into a new container.
// A second commit on the same builder fails with ErrAlreadyBuilt.
func (b *builder) Build(opts apis.BuildOptions) (apis.Container, error) {
	if !b.built.CompareAndSwap(false, true) {
		return nil, ErrAlreadyBuilt
	}
	c := container.New(registry.New(b.cfg), b.props, b.cfg)
	if err := b.commit(c, opts); err != nil {
		return nil, err
	}
	return c, nil
}

// Update is the legacy path: it commits the accumulated configuration into
// an existing container, appending registrations to its registry in place.
// The target registry acquired the default adapter chain when it was first
// built, so defaults are never re-registered here. Decorator wiring stays
// idempotent against the target across any number of builders.
func (b *builder) Update(c apis.Container, opts apis.BuildOptions) error {
	if c == nil {
		return ErrNilContainer
	}
	if !b.built.CompareAndSwap(false, true) {
		return ErrAlreadyBuilt
	}
	return b.commit(c, opts|apis.ExcludeDefaultModules)
}

// commit runs the commit sequence against c. Configuration callbacks are
// not transactional: the first failure aborts the sequence and leaves the
// registrations applied so far in place.
func (b *builder) commit(c apis.Container, opts apis.BuildOptions) error {
	// Snapshot the queues: callbacks registered while a commit is running
	// belong to nobody and must not tear the replay.
	b.mu.Lock()
	callbacks := append([]*apis.DeferredCallback(nil), b.callbacks...)
	buildCallbacks := append([](func(apis.Container))(nil), b.buildCallbacks...)
	b.mu.Unlock()

	reg := c.Registry()

	if opts&apis.ExcludeDefaultModules == 0 {
		source.RegisterDefaults(reg)
	}

	for _, cb := range callbacks {
		if err := cb.Call(reg); err != nil {
			return err
		}
	}

	decorator.Wire(c)

	if opts&apis.IgnoreStartableComponents == 0 {
		if err := startup.Run(c); err != nil {
			return err
		}
	}

	for _, fn := range buildCallbacks {
		fn(c)
	}
	return nil
}

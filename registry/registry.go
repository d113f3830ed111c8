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

// Package registry implements the component registry: the explicit
// registration index plus the ordered registration-source chain that
// synthesizes registrations on demand for otherwise-unregistered services.
package registry

import (
	"errors"
	"sync"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/config"
)

// ErrNilRegistration is returned when a nil registration is provided.
var ErrNilRegistration = errors.New("iocx(registry): nil registration provided")

// New constructs a Registry bounded by cfg.
// Only MaxSourceDepth is used here (MaxActivationDepth is a container concern).
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxSourceDepth <= 0 {
		cfg.MaxSourceDepth = config.DefaultMaxSourceDepth
	}
	return &registry{
		cfg:       cfg,
		explicit:  make(map[apis.Service][]*apis.Registration),
		generated: make(map[apis.Service][]*apis.Registration),
		known:     make(map[*apis.Registration]bool),
		evaluated: make(map[apis.Service]bool),
	}
}

// registry is the apis.Registry implementation. A single registry-wide
// mutex serializes index writes and source evaluation, so evaluation and
// cache insertion form one atomic step per service. Source composition
// re-enters the evaluation path on the caller goroutine via the accessor,
// never through the locked public methods.
//
// Explicit and generated registrations are indexed separately: the default
// for a service is always the most recent explicit registration, with
// generated registrations consulted only when no explicit one exists. A
// shared per-service index would let a later source evaluation shadow the
// user's explicit default.
type registry struct {
	// cfg bounds recursive source evaluation.
	cfg apis.Config
	// mu guards every field below.
	mu sync.Mutex
	// explicit maps each offered service to its explicitly registered
	// registrations in insertion order.
	explicit map[apis.Service][]*apis.Registration
	// generated maps each offered service to its source-generated
	// registrations in insertion order.
	generated map[apis.Service][]*apis.Registration
	// regs holds all registrations, explicit and generated, in insertion order.
	regs []*apis.Registration
	// known marks registrations already present in regs.
	known map[*apis.Registration]bool
	// sources is the ordered registration-source chain.
	sources []apis.Source
	// evaluated marks services whose source evaluation already ran.
	evaluated map[apis.Service]bool
	// depth is the current recursive evaluation depth.
	depth int
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// Register adds a registration to the explicit index, keyed by every
// service it offers. The most recently added registration becomes the
// default for each of its services.
func (r *registry) Register(reg *apis.Registration) error {
	if reg == nil {
		return ErrNilRegistration
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(reg, r.explicit)
	return nil
}

// AddSource appends a registration source. Services evaluated before the
// source was added keep their cached view and never re-resolve.
func (r *registry) AddSource(s apis.Source) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, s)
}

// TryGetRegistration returns the default registration for s: the most
// recently added explicit registration, otherwise the first generated
// registration. The choice is identical on the evaluating call and on
// every cached call after it.
func (r *registry) TryGetRegistration(s apis.Service) (*apis.Registration, bool) {
	if s == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if regs := r.explicit[s]; len(regs) > 0 {
		return regs[len(regs)-1], true
	}
	r.evaluateLocked(s)
	if gen := r.generated[s]; len(gen) > 0 {
		return gen[0], true
	}
	return nil, false
}

// RegistrationsFor returns every registration offering s, explicit before
// generated, in insertion order. Source evaluation runs at most once per
// distinct service; later calls hit the cache.
func (r *registry) RegistrationsFor(s apis.Service) []*apis.Registration {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluateLocked(s)
	return r.viewLocked(s)
}

// IsRegistered reports whether at least one registration offers s.
func (r *registry) IsRegistered(s apis.Service) bool {
	if s == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluateLocked(s)
	return len(r.explicit[s])+len(r.generated[s]) > 0
}

// Registrations returns a snapshot of all registrations in insertion order.
func (r *registry) Registrations() []*apis.Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*apis.Registration(nil), r.regs...)
}

// Count returns the number of registrations currently held.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}

// addLocked records reg in the flat list once and indexes it into view
// under every service it offers, skipping services that already hold the
// same registration.
func (r *registry) addLocked(reg *apis.Registration, view map[apis.Service][]*apis.Registration) {
	if !r.known[reg] {
		r.known[reg] = true
		r.regs = append(r.regs, reg)
	}
	for _, s := range reg.Services() {
		if s == nil || containsRegistration(view[s], reg) {
			continue
		}
		view[s] = append(view[s], reg)
	}
}

// viewLocked returns every registration offering s, explicit before
// generated, each group in insertion order.
func (r *registry) viewLocked(s apis.Service) []*apis.Registration {
	out := make([]*apis.Registration, 0, len(r.explicit[s])+len(r.generated[s]))
	out = append(out, r.explicit[s]...)
	return append(out, r.generated[s]...)
}

// evaluateLocked runs source evaluation for s if it has not run yet and
// caches everything the winning source generated. The service is marked
// evaluated before any source runs, so a source re-entering the accessor
// for the same service sees only the current view instead of recursing
// forever.
func (r *registry) evaluateLocked(s apis.Service) {
	if r.evaluated[s] || len(r.sources) == 0 {
		return
	}
	if r.depth >= r.cfg.MaxSourceDepth {
		// Too deep: leave s unevaluated so a shallower lookup can retry.
		return
	}
	r.evaluated[s] = true
	r.depth++
	defer func() { r.depth-- }()

	for _, src := range r.sources {
		gen := src.RegistrationsFor(s, r.accessorLocked)
		if len(gen) == 0 {
			continue
		}
		// First producing source wins; cache its output and stop.
		for _, g := range gen {
			if g != nil {
				r.addLocked(g, r.generated)
			}
		}
		return
	}
}

// accessorLocked is the apis.Accessor handed to sources during evaluation.
// It must only run while r.mu is held.
func (r *registry) accessorLocked(s apis.Service) []*apis.Registration {
	if s == nil {
		return nil
	}
	r.evaluateLocked(s)
	return r.viewLocked(s)
}

// containsRegistration reports whether regs already holds reg.
func containsRegistration(regs []*apis.Registration, reg *apis.Registration) bool {
	for _, existing := range regs {
		if existing == reg {
			return true
		}
	}
	return false
}

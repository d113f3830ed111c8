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

// Package startup implements the post-commit startup pass: eager
// activation of registrations offering the startable or auto-activate
// marker services, each processed exactly once per registration across
// repeated builds against the same registry.
package startup

import (
	"errors"
	"fmt"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/container"
)

// AutoActivationError reports that eager resolution of an auto-activate
// registration failed, identifying the failing registration and preserving
// the resolution failure as the cause.
type AutoActivationError struct {
	// Registration is the auto-activate registration that failed.
	Registration *apis.Registration
	// Err is the underlying resolution failure.
	Err error
}

// Error implements the error interface.
func (e *AutoActivationError) Error() string {
	return fmt.Sprintf("iocx(startup): auto-activation of %s failed: %v", e.Registration, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AutoActivationError) Unwrap() error {
	return e.Err
}

// Run executes both startup sub-passes against c, startables first. The
// first error aborts the remainder of the sequence; completion flags are
// recorded whether an attempt succeeds or fails, so a failed registration
// is never retried by a later pass.
func Run(c apis.Container) error {
	regs := c.Registry().Registrations()

	for _, reg := range regs {
		if !reg.Offers(apis.StartableService) || reg.Started() {
			continue
		}
		if err := start(c, reg); err != nil {
			return err
		}
	}

	for _, reg := range regs {
		if !reg.Offers(apis.AutoActivateService) || reg.AutoActivated() {
			continue
		}
		if err := autoActivate(c, reg); err != nil {
			return err
		}
	}
	return nil
}

// start activates reg and invokes its start operation. Errors propagate
// unwrapped to the Build caller.
func start(c apis.Container, reg *apis.Registration) error {
	defer reg.MarkStarted()

	instance, err := c.ResolveRegistration(reg)
	if err != nil {
		return err
	}
	if s, ok := instance.(apis.Startable); ok {
		return s.Start()
	}
	return nil
}

// autoActivate resolves reg and discards the instance. A dependency
// resolution failure is re-thrown wrapped, identifying the registration.
func autoActivate(c apis.Container, reg *apis.Registration) error {
	defer reg.MarkAutoActivated()

	if _, err := c.ResolveRegistration(reg); err != nil {
		var dre *container.DependencyResolutionError
		if errors.As(err, &dre) {
			return &AutoActivationError{Registration: reg, Err: err}
		}
		return err
	}
	return nil
}

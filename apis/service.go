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
	"fmt"
	"reflect"
)

// Service identifies a requested capability. Implementations must be
// comparable structs so Service values have structural equality and can
// be used directly as registry index keys.
type Service interface {
	// String returns a human-readable description of the service,
	// suitable for error messages and diagnostics.
	String() string
}

// TypedService identifies a capability by its Go type alone.
type TypedService struct {
	// Type is the requested Go type.
	Type reflect.Type
}

// Ensure TypedService implements Service.
var _ Service = TypedService{}

// String returns the service description, e.g. "pkg.Greeter".
func (s TypedService) String() string {
	if s.Type == nil {
		return "<nil>"
	}
	return s.Type.String()
}

// KeyedService identifies a capability by a Go type plus a discriminating
// key, so several implementations of one type can coexist and be told apart.
type KeyedService struct {
	// Key discriminates between registrations of the same type.
	Key string
	// Type is the requested Go type.
	Type reflect.Type
}

// Ensure KeyedService implements Service.
var _ Service = KeyedService{}

// String returns the service description, e.g. `pkg.Greeter[key="fancy"]`.
func (s KeyedService) String() string {
	t := "<nil>"
	if s.Type != nil {
		t = s.Type.String()
	}
	return fmt.Sprintf("%s[key=%q]", t, s.Key)
}

// DecoratorService marks a registration as a decorator for the plain typed
// service of Decorated. It participates in registry lookups like any other
// service, and is singled out by the decorator wiring pass.
type DecoratorService struct {
	// Decorated is the Go type being decorated.
	Decorated reflect.Type
}

// Ensure DecoratorService implements Service.
var _ Service = DecoratorService{}

// String returns the service description, e.g. "decorator(pkg.Greeter)".
func (s DecoratorService) String() string {
	if s.Decorated == nil {
		return "decorator(<nil>)"
	}
	return "decorator(" + s.Decorated.String() + ")"
}

// flagService is a well-known capability marker with no payload.
type flagService struct {
	name string
}

// String returns the marker name.
func (s flagService) String() string {
	return s.name
}

var (
	// StartableService is the well-known marker service. Registrations
	// offering it are eagerly activated at build time, and their Start
	// operation is invoked if the instance implements Startable.
	StartableService Service = flagService{name: "iocx.startable"}

	// AutoActivateService is the well-known marker service. Registrations
	// offering it are eagerly resolved at build time and the instance is
	// discarded (no Start call).
	AutoActivateService Service = flagService{name: "iocx.auto-activate"}
)

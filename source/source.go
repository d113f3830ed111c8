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

// Package source provides the default registration-source adapters: the
// pluggable generators the registry falls back to when no explicit
// registration satisfies a service. Each adapter recognizes one request
// shape (index map, slice, Owned, Meta, Lazy, factory function) and
// synthesizes a registration whose activator performs the real resolution
// through the activation context.
//
// Adapters compose through the registry: an activator synthesized by one
// adapter resolves its target with ctx.Resolve, which may in turn be
// served by another adapter (e.g. *Lazy[Meta[T]]).
package source

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/iocx/apis"
)

// ErrInstanceTypeMismatch indicates that an activated instance is not
// assignable to the type the adapter must produce.
var ErrInstanceTypeMismatch = errors.New("iocx(source): activated instance type mismatch")

var errType = reflect.TypeOf((*error)(nil)).Elem()

// generated wraps a synthesized activator into a single-registration result
// offering exactly the requested service.
func generated(s apis.Service, act apis.Activator) []*apis.Registration {
	reg, err := apis.NewRegistration(act, s)
	if err != nil {
		return nil
	}
	return []*apis.Registration{reg}
}

// instanceValue converts an activated instance to a reflect.Value of type t.
// A nil instance yields the zero value of t.
func instanceValue(instance any, t reflect.Type) (reflect.Value, error) {
	if instance == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(instance)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: got %s, want %s", ErrInstanceTypeMismatch, v.Type(), t)
	}
	return v, nil
}

// errValue converts an error to a reflect.Value usable as a function result.
func errValue(err error) reflect.Value {
	if err == nil {
		return reflect.Zero(errType)
	}
	return reflect.ValueOf(err)
}

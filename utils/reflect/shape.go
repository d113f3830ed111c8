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

// Package reflect classifies requested service types by shape, so the
// registration-source adapters can decide whether a request is a slice,
// an index map, a factory function, or an instantiation of one of the
// iocx relationship types (Lazy, Meta, Owned).
package reflect

import (
	"reflect"
	"strings"
)

// GenericBase splits the name of an instantiated generic type into its base
// name, e.g. "Lazy" for "Lazy[pkg.Foo]". It returns ok=false for nil,
// unnamed and non-generic types.
func GenericBase(t reflect.Type) (base string, ok bool) {
	if t == nil {
		return "", false
	}
	name := t.Name()
	i := strings.IndexByte(name, '[')
	if i <= 0 {
		return "", false
	}
	return name[:i], true
}

// Instantiates reports whether t is an instantiation of the same generic
// type as the probe type, comparing package path and generic base name.
// The probe is any concrete instantiation, e.g. reflect.TypeOf(Lazy[struct{}]{}).
func Instantiates(t, probe reflect.Type) bool {
	if t == nil || probe == nil {
		return false
	}
	if t.PkgPath() != probe.PkgPath() {
		return false
	}
	tb, ok := GenericBase(t)
	if !ok {
		return false
	}
	pb, ok := GenericBase(probe)
	if !ok {
		return false
	}
	return tb == pb
}

// SliceElem returns the element type when t is a slice usable as a
// collection request. Byte slices are excluded; they are values, not
// collections of registrations.
func SliceElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Slice {
		return nil, false
	}
	e := t.Elem()
	if e.Kind() == reflect.Uint8 {
		return nil, false
	}
	return e, true
}

// IndexShape returns the key and element types when t is a map with a
// string-kind key, the shape served by the indexed (keyed-collection)
// adapter.
func IndexShape(t reflect.Type) (key, elem reflect.Type, ok bool) {
	if t == nil || t.Kind() != reflect.Map {
		return nil, nil, false
	}
	if t.Key().Kind() != reflect.String {
		return nil, nil, false
	}
	return t.Key(), t.Elem(), true
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// FactoryShape returns the product type when t is a function shape served
// by the generated-factory adapter: any number of inputs, producing either
// (T) or (T, error), where T is not error. Variadic functions are not
// factories.
func FactoryShape(t reflect.Type) (out reflect.Type, hasErr bool, ok bool) {
	if t == nil || t.Kind() != reflect.Func || t.IsVariadic() {
		return nil, false, false
	}
	switch t.NumOut() {
	case 1:
		out = t.Out(0)
	case 2:
		if t.Out(1) != errType {
			return nil, false, false
		}
		out = t.Out(0)
		hasErr = true
	default:
		return nil, false, false
	}
	if out == errType {
		return nil, false, false
	}
	return out, hasErr, true
}

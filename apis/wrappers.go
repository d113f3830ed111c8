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
	"sync"
)

// ErrLazyNotInitialized is returned by Lazy.Get when the lazy value was not
// produced by the container (its New field is nil).
var ErrLazyNotInitialized = errors.New("iocx(apis): lazy value not initialized by a container")

// Lazy defers resolution of a T until first use. The registry's lazy
// adapter synthesizes *Lazy[T] values for otherwise-unregistered requests;
// it populates New with a resolver bound to the activation context.
// Get memoizes the first outcome, success or failure.
type Lazy[T any] struct {
	// New produces the value. Populated by the lazy source adapter.
	New func() (T, error)

	once sync.Once
	val  T
	err  error
}

// Get resolves the value on first call and returns the memoized outcome on
// every subsequent call.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		if l.New == nil {
			l.err = ErrLazyNotInitialized
			return
		}
		l.val, l.err = l.New()
	})
	return l.val, l.err
}

// Meta pairs a resolved value with the user metadata of the registration
// that produced it. The registry's metadata adapter synthesizes Meta[T]
// values for otherwise-unregistered requests.
type Meta[T any] struct {
	// Value is the resolved instance.
	Value T
	// Metadata is a copy of the producing registration's metadata map.
	Metadata map[string]any
}

// Owned pairs a resolved value with a release hook. The registry's owned
// adapter synthesizes Owned[T] values; Release closes the value when it
// implements io.Closer and is otherwise a no-op. Release is safe to call
// more than once.
type Owned[T any] struct {
	// Value is the resolved instance.
	Value T
	// Release relinquishes the instance.
	Release func()
}

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

package registry_test

import (
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/config"
	"dirpx.dev/iocx/registry"
)

type c0 struct{}
type c1 struct{}
type c2 struct{}
type c3 struct{}
type c4 struct{}

// TestConcurrentRegisterAndLookup verifies that Register, TryGetRegistration,
// RegistrationsFor, Registrations and Count are race-free and consistent
// under concurrent use.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	services := []apis.Service{
		apis.TypedService{Type: reflect.TypeOf(c0{})},
		apis.TypedService{Type: reflect.TypeOf(c1{})},
		apis.TypedService{Type: reflect.TypeOf(c2{})},
		apis.TypedService{Type: reflect.TypeOf(c3{})},
		apis.TypedService{Type: reflect.TypeOf(c4{})},
	}

	workers := runtime.GOMAXPROCS(0) * 2
	if workers < 4 {
		workers = 4
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s := services[(w+i)%len(services)]
				if w%2 == 0 {
					reg, err := apis.NewRegistration(nopActivator, s)
					if err != nil {
						t.Errorf("NewRegistration: %v", err)
						return
					}
					if err := r.Register(reg); err != nil {
						t.Errorf("Register: %v", err)
						return
					}
				} else {
					r.TryGetRegistration(s)
					r.RegistrationsFor(s)
					r.Registrations()
					r.Count()
				}
			}
		}(w)
	}
	wg.Wait()

	// Half the workers registered 200 registrations each.
	want := (workers / 2) * 200
	if got := r.Count(); got != want {
		t.Fatalf("Count() = %d, want %d", got, want)
	}
}

// TestConcurrentSourceEvaluation_Once verifies that concurrent resolution of
// the same service evaluates the source chain exactly once: evaluation and
// cache insertion form one atomic step.
func TestConcurrentSourceEvaluation_Once(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	s := apis.TypedService{Type: reflect.TypeOf(c0{})}

	var evaluations atomic.Int32
	r.AddSource(sourceFunc(func(req apis.Service, _ apis.Accessor) []*apis.Registration {
		if req != s {
			return nil
		}
		evaluations.Add(1)
		reg, _ := apis.NewRegistration(nopActivator, req)
		return []*apis.Registration{reg}
	}))

	workers := runtime.GOMAXPROCS(0) * 4
	if workers < 8 {
		workers = 8
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 50; i++ {
				if _, ok := r.TryGetRegistration(s); !ok {
					t.Error("TryGetRegistration missed a sourced service")
					return
				}
			}
		}()
	}
	close(start)
	wg.Wait()

	if n := evaluations.Load(); n != 1 {
		t.Fatalf("source evaluated %d times, want exactly 1", n)
	}
	if regs := r.RegistrationsFor(s); len(regs) != 1 {
		t.Fatalf("duplicate generated registrations: %d", len(regs))
	}
}

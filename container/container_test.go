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

package container_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/config"
	"dirpx.dev/iocx/container"
	"dirpx.dev/iocx/registry"
)

type greeter struct {
	trace []string
}

var greeterService = apis.TypedService{Type: reflect.TypeOf(&greeter{})}

// instanceActivator returns a fixed instance.
func instanceActivator(v any) apis.Activator {
	return apis.ActivatorFunc(func(apis.Context, []apis.Parameter) (any, error) {
		return v, nil
	})
}

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := config.DefaultConfig()
	return container.New(registry.New(cfg), nil, cfg)
}

func TestResolve_Unregistered(t *testing.T) {
	c := newContainer(t)

	_, err := c.Resolve(greeterService)
	require.Error(t, err)

	var dre *container.DependencyResolutionError
	require.ErrorAs(t, err, &dre)
	assert.Equal(t, greeterService, dre.Service)
	assert.ErrorIs(t, err, container.ErrServiceNotRegistered)
}

func TestResolve_ActivatesDefaultRegistration(t *testing.T) {
	c := newContainer(t)

	want := &greeter{}
	reg, err := apis.NewRegistration(instanceActivator(want), greeterService)
	require.NoError(t, err)
	require.NoError(t, c.Registry().Register(reg))

	got, err := c.Resolve(greeterService)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestResolveRegistration_InterceptorsRunInAttachmentOrder(t *testing.T) {
	c := newContainer(t)

	reg, err := apis.NewRegistration(instanceActivator(&greeter{}), greeterService)
	require.NoError(t, err)
	require.NoError(t, c.Registry().Register(reg))

	reg.AddInterceptor(func(_ apis.Context, instance any) (any, error) {
		g := instance.(*greeter)
		g.trace = append(g.trace, "first")
		return g, nil
	})
	reg.AddInterceptor(func(_ apis.Context, instance any) (any, error) {
		g := instance.(*greeter)
		g.trace = append(g.trace, "second")
		return g, nil
	})

	got, err := c.ResolveRegistration(reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got.(*greeter).trace)
}

func TestResolveRegistration_InterceptorErrorWrapped(t *testing.T) {
	c := newContainer(t)

	boom := errors.New("boom")
	reg, err := apis.NewRegistration(instanceActivator(&greeter{}), greeterService)
	require.NoError(t, err)
	reg.AddInterceptor(func(apis.Context, any) (any, error) {
		return nil, boom
	})

	_, err = c.ResolveRegistration(reg)
	var dre *container.DependencyResolutionError
	require.ErrorAs(t, err, &dre)
	assert.Same(t, reg, dre.Registration)
	assert.ErrorIs(t, err, boom)
}

func TestResolveRegistration_NilRegistration(t *testing.T) {
	c := newContainer(t)

	_, err := c.ResolveRegistration(nil)
	assert.ErrorIs(t, err, container.ErrNilRegistration)
}

func TestResolve_CircularActivationTerminates(t *testing.T) {
	cfg := config.NewConfig(config.WithMaxActivationDepth(16))
	c := container.New(registry.New(cfg), nil, cfg)

	// An activator that resolves its own service.
	act := apis.ActivatorFunc(func(ctx apis.Context, _ []apis.Parameter) (any, error) {
		return ctx.Resolve(greeterService)
	})
	reg, err := apis.NewRegistration(act, greeterService)
	require.NoError(t, err)
	require.NoError(t, c.Registry().Register(reg))

	_, err = c.Resolve(greeterService)
	assert.ErrorIs(t, err, container.ErrActivationDepthExceeded)
}

func TestClaimDecoration_OncePerType(t *testing.T) {
	c := newContainer(t)
	ty := reflect.TypeOf(&greeter{})

	assert.True(t, c.ClaimDecoration(ty))
	assert.False(t, c.ClaimDecoration(ty), "second claim for the same type must fail")
	assert.True(t, c.ClaimDecoration(reflect.TypeOf(greeter{})), "distinct type claims independently")
	assert.False(t, c.ClaimDecoration(nil))
}

func TestProperties_SharedMap(t *testing.T) {
	props := map[string]any{"env": "test"}
	cfg := config.DefaultConfig()
	c := container.New(registry.New(cfg), props, cfg)

	assert.Equal(t, "test", c.Properties()["env"])
	c.Properties()["extra"] = 1
	assert.Equal(t, 1, props["extra"], "properties map is shared by reference")

	// A nil map is replaced, not dereferenced.
	c = container.New(registry.New(cfg), nil, cfg)
	require.NotNil(t, c.Properties())
}

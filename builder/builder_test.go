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

package builder_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/iocx/apis"
	"dirpx.dev/iocx/builder"
	"dirpx.dev/iocx/container"
)

type widget struct {
	id int
}

var widgetService = apis.TypedService{Type: reflect.TypeOf(&widget{})}

// registerWidget queues a registration of a fresh widget with the given id.
func registerWidget(t *testing.T, b apis.Builder, id int) {
	t.Helper()
	_, err := b.RegisterCallback(func(reg apis.Registry) error {
		r, err := apis.NewRegistration(
			apis.ActivatorFunc(func(apis.Context, []apis.Parameter) (any, error) {
				return &widget{id: id}, nil
			}), widgetService)
		if err != nil {
			return err
		}
		return reg.Register(r)
	})
	require.NoError(t, err)
}

func TestBuild_EmptyBuilder(t *testing.T) {
	c, err := builder.New().Build(apis.BuildOptionsNone)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Zero(t, c.Registry().Count())
}

func TestBuild_CallbacksNotAppliedUntilBuild(t *testing.T) {
	b := builder.New()
	applied := false
	_, err := b.RegisterCallback(func(apis.Registry) error {
		applied = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, applied, "configuration must stay pending until commit")

	_, err = b.Build(apis.BuildOptionsNone)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestBuild_CallbacksReplayInRegistrationOrder(t *testing.T) {
	b := builder.New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		_, err := b.RegisterCallback(func(apis.Registry) error {
			order = append(order, i)
			return nil
		})
		require.NoError(t, err)
	}

	_, err := b.Build(apis.BuildOptionsNone)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestBuild_SecondBuildFails(t *testing.T) {
	b := builder.New()
	_, err := b.Build(apis.BuildOptionsNone)
	require.NoError(t, err)

	_, err = b.Build(apis.BuildOptionsNone)
	assert.ErrorIs(t, err, builder.ErrAlreadyBuilt)
}

func TestBuild_CallbackErrorAbortsWithoutRollback(t *testing.T) {
	b := builder.New()
	registerWidget(t, b, 1)
	boom := errors.New("boom")
	var seen apis.Registry
	_, err := b.RegisterCallback(func(reg apis.Registry) error {
		seen = reg
		return boom
	})
	require.NoError(t, err)
	laterRan := false
	_, err = b.RegisterCallback(func(apis.Registry) error {
		laterRan = true
		return nil
	})
	require.NoError(t, err)

	_, err = b.Build(apis.BuildOptionsNone)
	assert.ErrorIs(t, err, boom)
	assert.False(t, laterRan, "callbacks after the failure must not run")

	// Registrations applied before the failure stay in the registry.
	require.NotNil(t, seen)
	assert.True(t, seen.IsRegistered(widgetService), "earlier configuration must survive the failed commit")

	// The builder is spent even after a failed commit.
	_, err = b.Build(apis.BuildOptionsNone)
	assert.ErrorIs(t, err, builder.ErrAlreadyBuilt)
}

func TestBuild_DistinctCallbackIdentities(t *testing.T) {
	b := builder.New()
	first, err := b.RegisterCallback(func(apis.Registry) error { return nil })
	require.NoError(t, err)
	second, err := b.RegisterCallback(func(apis.Registry) error { return nil })
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestBuild_NilCallbacksRejected(t *testing.T) {
	b := builder.New()
	_, err := b.RegisterCallback(nil)
	assert.ErrorIs(t, err, builder.ErrNilCallback)
	assert.ErrorIs(t, b.RegisterBuildCallback(nil), builder.ErrNilCallback)
}

func TestBuild_BuildCallbacksObserveFinishedContainer(t *testing.T) {
	b := builder.New()
	registerWidget(t, b, 1)

	var seen apis.Container
	require.NoError(t, b.RegisterBuildCallback(func(c apis.Container) {
		seen = c
	}))

	c, err := b.Build(apis.BuildOptionsNone)
	require.NoError(t, err)
	require.Same(t, c, seen)
	assert.True(t, seen.Registry().IsRegistered(widgetService))
}

func TestBuild_PropertiesPropagate(t *testing.T) {
	b := builder.New()
	b.Properties()["env"] = "test"

	c, err := b.Build(apis.BuildOptionsNone)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Properties()["env"])
}

func TestBuild_DefaultAdaptersInstalled(t *testing.T) {
	b := builder.New()
	registerWidget(t, b, 1)

	c, err := b.Build(apis.BuildOptionsNone)
	require.NoError(t, err)

	got, err := c.Resolve(apis.TypedService{Type: reflect.TypeOf([]*widget(nil))})
	require.NoError(t, err)
	assert.Len(t, got.([]*widget), 1)
}

func TestBuild_ExcludeDefaultModules(t *testing.T) {
	b := builder.New()
	registerWidget(t, b, 1)

	c, err := b.Build(apis.ExcludeDefaultModules)
	require.NoError(t, err)

	_, err = c.Resolve(apis.TypedService{Type: reflect.TypeOf([]*widget(nil))})
	assert.ErrorIs(t, err, container.ErrServiceNotRegistered)
}

func TestBuild_IgnoreStartableComponents(t *testing.T) {
	b := builder.New()
	started := false
	_, err := b.RegisterCallback(func(reg apis.Registry) error {
		r, err := apis.NewRegistration(
			apis.ActivatorFunc(func(apis.Context, []apis.Parameter) (any, error) {
				started = true
				return struct{}{}, nil
			}), apis.AutoActivateService)
		if err != nil {
			return err
		}
		return reg.Register(r)
	})
	require.NoError(t, err)

	_, err = b.Build(apis.IgnoreStartableComponents)
	require.NoError(t, err)
	assert.False(t, started)
}

func TestUpdate_AppendsToExistingContainer(t *testing.T) {
	first := builder.New()
	registerWidget(t, first, 1)
	c, err := first.Build(apis.BuildOptionsNone)
	require.NoError(t, err)

	second := builder.New()
	registerWidget(t, second, 2)
	require.NoError(t, second.Update(c, apis.BuildOptionsNone))

	got, err := c.Resolve(widgetService)
	require.NoError(t, err)
	assert.Equal(t, 2, got.(*widget).id, "the most recent registration becomes the default")

	all, err := c.Resolve(apis.TypedService{Type: reflect.TypeOf([]*widget(nil))})
	require.NoError(t, err)
	assert.Len(t, all.([]*widget), 2)
}

func TestUpdate_NilContainer(t *testing.T) {
	assert.ErrorIs(t, builder.New().Update(nil, apis.BuildOptionsNone), builder.ErrNilContainer)
}

func TestUpdate_SpendsBuilder(t *testing.T) {
	c, err := builder.New().Build(apis.BuildOptionsNone)
	require.NoError(t, err)

	b := builder.New()
	require.NoError(t, b.Update(c, apis.BuildOptionsNone))
	assert.ErrorIs(t, b.Update(c, apis.BuildOptionsNone), builder.ErrAlreadyBuilt)
	_, err = b.Build(apis.BuildOptionsNone)
	assert.ErrorIs(t, err, builder.ErrAlreadyBuilt)
}

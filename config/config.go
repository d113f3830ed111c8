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

package config

import (
	"dirpx.dev/iocx/apis"
)

const (
	// DefaultMaxActivationDepth represents the default for MaxActivationDepth.
	// Deep enough for any reasonable object graph; a chain longer than this
	// is treated as circular.
	DefaultMaxActivationDepth = 64
	// DefaultMaxSourceDepth represents the default for MaxSourceDepth.
	// A value of 8 should be sufficient for all practical adapter nesting
	// (e.g. a lazy of a metadata pair of a collection).
	DefaultMaxSourceDepth = 8
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure depths are valid.
	if cfg.MaxActivationDepth <= 0 {
		cfg.MaxActivationDepth = DefaultMaxActivationDepth
	}
	if cfg.MaxSourceDepth <= 0 {
		cfg.MaxSourceDepth = DefaultMaxSourceDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxActivationDepth: DefaultMaxActivationDepth,
		MaxSourceDepth:     DefaultMaxSourceDepth,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxActivationDepth sets the MaxActivationDepth option.
// A non-positive value resets to the default.
func WithMaxActivationDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxActivationDepth = DefaultMaxActivationDepth
			return
		}
		c.MaxActivationDepth = depth
	}
}

// WithMaxSourceDepth sets the MaxSourceDepth option.
// A non-positive value resets to the default.
func WithMaxSourceDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxSourceDepth = DefaultMaxSourceDepth
			return
		}
		c.MaxSourceDepth = depth
	}
}

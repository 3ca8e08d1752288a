/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package lookup

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// Backend looks up raw configuration values by key
type Backend interface {
	Lookup(key string) (interface{}, bool)
}

// New providers lookup wrapper around given backends
func New(backends ...Backend) *ConfigLookup {
	return &ConfigLookup{backends: backends}
}

// unmarshalOpts opts for unmarshal key function
type unmarshalOpts struct {
	hooks []mapstructure.DecodeHookFunc
}

// UnmarshalOption describes a functional parameter unmarshaling
type UnmarshalOption func(o *unmarshalOpts)

// WithUnmarshalHookFunction provides an option to pass Custom Decode Hook Func
// for unmarshaling
func WithUnmarshalHookFunction(hookFunction mapstructure.DecodeHookFunc) UnmarshalOption {
	return func(o *unmarshalOpts) {
		o.hooks = append(o.hooks, hookFunction)
	}
}

// ConfigLookup is wrapper for backends which performs type conversion
// and unmarshal operations. The first backend holding a key wins.
type ConfigLookup struct {
	backends []Backend
}

// Lookup returns the value of the key from the first backend that has it
func (c *ConfigLookup) Lookup(key string) (interface{}, bool) {
	for _, backend := range c.backends {
		if backend == nil {
			continue
		}
		val, ok := backend.Lookup(key)
		if ok {
			return val, true
		}
	}
	return nil, false
}

// GetBool returns the value of the key as bool
func (c *ConfigLookup) GetBool(key string) bool {
	value, ok := c.Lookup(key)
	if !ok {
		return false
	}
	return cast.ToBool(value)
}

// GetString returns the value of the key as string
func (c *ConfigLookup) GetString(key string) string {
	value, ok := c.Lookup(key)
	if !ok {
		return ""
	}
	return cast.ToString(value)
}

// GetLowerString returns the value of the key as lower case string
func (c *ConfigLookup) GetLowerString(key string) string {
	return strings.ToLower(c.GetString(key))
}

// GetInt returns the value of the key as int
func (c *ConfigLookup) GetInt(key string) int {
	value, ok := c.Lookup(key)
	if !ok {
		return 0
	}
	return cast.ToInt(value)
}

// GetDuration returns the value of the key as duration
func (c *ConfigLookup) GetDuration(key string) time.Duration {
	value, ok := c.Lookup(key)
	if !ok {
		return 0
	}
	return cast.ToDuration(value)
}

// UnmarshalKey unmarshals the value of the key into rawVal. Durations may be
// written as strings ("2s"); an absent key leaves rawVal untouched.
func (c *ConfigLookup) UnmarshalKey(key string, rawVal interface{}, opts ...UnmarshalOption) error {
	value, ok := c.Lookup(key)
	if !ok {
		return nil
	}

	unmarshalHooks := []mapstructure.DecodeHookFunc{mapstructure.StringToTimeDurationHookFunc()}

	unmarshalOptions := unmarshalOpts{}
	for _, param := range opts {
		param(&unmarshalOptions)
	}

	hookFn := mapstructure.ComposeDecodeHookFunc(append(unmarshalHooks, unmarshalOptions.hooks...)...)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       hookFn,
		WeaklyTypedInput: true,
		Result:           rawVal,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(value)
}

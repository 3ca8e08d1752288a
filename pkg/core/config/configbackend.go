/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"github.com/spf13/viper"
)

// Backend is the viper based configuration backend
type Backend struct {
	configViper *viper.Viper
	opts        options
	// dir of the config file; empty when read from bytes
	dir string
}

// Lookup gets the config item value by Key
func (c *Backend) Lookup(key string) (interface{}, bool) {
	value := c.configViper.Get(key)
	if value == nil {
		return nil, false
	}
	return value, true
}

// Dir returns the directory of the config file, or "" when the config was not read from a file
func (c *Backend) Dir() string {
	return c.dir
}

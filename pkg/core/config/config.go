/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package config loads the network and client configuration of the setup
// tool from YAML or JSON with viper. Leaf keys can be overridden by
// environment variables prefixed FABSETUP (client.mspID -> FABSETUP_CLIENT_MSPID).
package config

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type options struct {
	envPrefix string
}

const (
	cmdRoot = "FABSETUP"
)

// Option configures the package.
type Option func(opts *options) error

// Provider supplies a configuration backend
type Provider func() (*Backend, error)

// FromReader loads configuration from in.
// configType can be "json" or "yaml".
func FromReader(in io.Reader, configType string, opts ...Option) Provider {
	return func() (*Backend, error) {
		return initFromReader(in, configType, opts...)
	}
}

// FromFile reads from named config file. Relative paths in the file are
// resolved against the directory of the file.
func FromFile(name string, opts ...Option) Provider {
	return func() (*Backend, error) {
		if name == "" {
			return nil, errors.New("filename is required")
		}

		backend, err := newBackend(opts...)
		if err != nil {
			return nil, err
		}

		backend.configViper.SetConfigFile(name)

		// If a config file is found, read it in.
		err = backend.configViper.MergeInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "loading config file failed: %s", name)
		}

		dir, err := filepath.Abs(filepath.Dir(name))
		if err != nil {
			return nil, errors.Wrapf(err, "resolving config directory failed: %s", name)
		}
		backend.dir = dir

		return backend, nil
	}
}

// FromRaw will initialize the configs from a byte array
func FromRaw(configBytes []byte, configType string, opts ...Option) Provider {
	return func() (*Backend, error) {
		buf := bytes.NewBuffer(configBytes)
		return initFromReader(buf, configType, opts...)
	}
}

func initFromReader(in io.Reader, configType string, opts ...Option) (*Backend, error) {
	if configType == "" {
		return nil, errors.New("empty config type")
	}

	backend, err := newBackend(opts...)
	if err != nil {
		return nil, err
	}

	// read config from bytes array, but must set ConfigType
	// for viper to properly unmarshal the bytes array
	backend.configViper.SetConfigType(configType)
	err = backend.configViper.MergeConfig(in)
	if err != nil {
		return nil, errors.Wrap(err, "reading config failed")
	}

	return backend, nil
}

// WithEnvPrefix defines the prefix for environment variable overrides.
// See viper SetEnvPrefix for more information.
func WithEnvPrefix(prefix string) Option {
	return func(opts *options) error {
		if prefix == "" {
			return errors.New("env prefix must not be empty")
		}
		opts.envPrefix = prefix
		return nil
	}
}

func newBackend(opts ...Option) (*Backend, error) {
	o := options{
		envPrefix: cmdRoot,
	}

	for _, option := range opts {
		err := option(&o)
		if err != nil {
			return nil, errors.WithMessage(err, "Error in options passed to create new config backend")
		}
	}

	return &Backend{
		configViper: newViper(o.envPrefix),
		opts:        o,
	}, nil
}

func newViper(cmdRootPrefix string) *viper.Viper {
	myViper := viper.New()
	myViper.SetEnvPrefix(cmdRootPrefix)
	myViper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	myViper.SetEnvKeyReplacer(replacer)
	return myViper
}

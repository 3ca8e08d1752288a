/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"crypto/x509"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/multi"
	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/retry"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/core/config/endpoint"
	"github.com/fabsetup/fabric-setup-go/pkg/core/config/lookup"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/kitlog"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/metadata"
	"github.com/fabsetup/fabric-setup-go/pkg/util/pathvar"
)

// ConfigDirVar names the directory of the config file in path substitutions
const ConfigDirVar = "FABSETUP_CONFIG_DIR"

// Config is the decoded configuration of the setup tool
type Config struct {
	Client   ClientConfig
	Orderers map[string]EndpointConfig
	Peers    map[string]EndpointConfig
	Retry    RetryConfig
	Timeout  TimeoutsConfig
	Metrics  MetricsConfig
}

// ClientConfig identifies the admin the setup actions are signed by
type ClientConfig struct {
	MSPID    string
	CertPath string
	KeyPath  string
	Logging  LoggingConfig
}

// LoggingConfig sets the default level and per module levels
type LoggingConfig struct {
	api.LoggingType
	Modules map[string]string
}

// EndpointConfig is an orderer or peer endpoint
type EndpointConfig struct {
	URL         string
	TLSCACerts  endpoint.TLSConfig
	GRPCOptions map[string]interface{}
}

// RetryConfig is the retry policy of channel creation and join
type RetryConfig struct {
	Interval time.Duration
	Attempts int
}

// TimeoutsConfig holds connection and response timeouts
type TimeoutsConfig struct {
	Connection time.Duration
	Response   time.Duration
}

// MetricsConfig enables the prometheus endpoint
type MetricsConfig struct {
	ListenAddress string
	Namespace     string
}

// Load decodes and validates the configuration supplied by p
func Load(p Provider) (*Config, error) {
	if p == nil {
		return nil, errors.New("config provider is required")
	}
	backend, err := p()
	if err != nil {
		return nil, errors.WithMessage(err, "config backend creation failed")
	}

	l := lookup.New(backend)
	vars := map[string]string{ConfigDirVar: backend.Dir()}

	cfg := &Config{
		Client: ClientConfig{
			MSPID:    l.GetString("client.mspID"),
			CertPath: resolvePath(l.GetString("client.credentials.cert.path"), backend.Dir(), vars),
			KeyPath:  resolvePath(l.GetString("client.credentials.key.path"), backend.Dir(), vars),
			Logging: LoggingConfig{
				LoggingType: api.LoggingType{Level: l.GetString("client.logging.level")},
			},
		},
		Retry: RetryConfig{
			Interval: retry.DefaultInterval,
			Attempts: l.GetInt("retry.attempts"),
		},
		Timeout: TimeoutsConfig{
			Connection: l.GetDuration("timeouts.connection"),
			Response:   l.GetDuration("timeouts.response"),
		},
		Metrics: MetricsConfig{
			ListenAddress: l.GetString("metrics.listenAddress"),
			Namespace:     l.GetString("metrics.namespace"),
		},
	}
	if _, ok := l.Lookup("retry.interval"); ok {
		cfg.Retry.Interval = l.GetDuration("retry.interval")
	}

	if err := l.UnmarshalKey("client.logging.modules", &cfg.Client.Logging.Modules); err != nil {
		return nil, errors.Wrap(err, "failed to parse 'client.logging.modules' config item")
	}
	if err := l.UnmarshalKey("orderers", &cfg.Orderers); err != nil {
		return nil, errors.Wrap(err, "failed to parse 'orderers' config item")
	}
	if err := l.UnmarshalKey("peers", &cfg.Peers); err != nil {
		return nil, errors.Wrap(err, "failed to parse 'peers' config item")
	}

	for _, endpoints := range []map[string]EndpointConfig{cfg.Orderers, cfg.Peers} {
		for name, ep := range endpoints {
			ep.TLSCACerts.Path = resolvePath(ep.TLSCACerts.Path, backend.Dir(), vars)
			endpoints[name] = ep
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem found
func (c *Config) Validate() error {
	var errs error
	if c.Client.Logging.Level != "" {
		if _, err := metadata.ParseLevel(c.Client.Logging.Level); err != nil {
			errs = multi.Append(errs, errors.WithMessage(err, "client.logging.level"))
		}
	}
	for module, level := range c.Client.Logging.Modules {
		if _, err := metadata.ParseLevel(level); err != nil {
			errs = multi.Append(errs, errors.WithMessagef(err, "client.logging.modules.%s", module))
		}
	}
	for name, ep := range c.Orderers {
		if ep.URL == "" {
			errs = multi.Append(errs, errors.Errorf("orderers.%s: url is required", name))
		}
	}
	for name, ep := range c.Peers {
		if ep.URL == "" {
			errs = multi.Append(errs, errors.Errorf("peers.%s: url is required", name))
		}
	}
	if c.Retry.Interval < 0 {
		errs = multi.Append(errs, errors.New("retry.interval must not be negative"))
	}
	if c.Retry.Attempts < 0 {
		errs = multi.Append(errs, errors.New("retry.attempts must not be negative"))
	}
	return errs
}

// ValidateIdentity checks that the admin identity is configured
func (c *Config) ValidateIdentity() error {
	var errs error
	if c.Client.MSPID == "" {
		errs = multi.Append(errs, errors.New("client.mspID is required"))
	}
	if c.Client.CertPath == "" {
		errs = multi.Append(errs, errors.New("client.credentials.cert.path is required"))
	}
	if c.Client.KeyPath == "" {
		errs = multi.Append(errs, errors.New("client.credentials.key.path is required"))
	}
	return errs
}

// OrdererConfig returns the named orderer
func (c *Config) OrdererConfig(name string) (*fab.OrdererConfig, error) {
	ep, ok := c.Orderers[name]
	if !ok {
		return nil, errors.Errorf("orderer [%s] not found in config", name)
	}
	cert, err := loadCACert(&ep)
	if err != nil {
		return nil, errors.WithMessagef(err, "orderer [%s]", name)
	}
	return &fab.OrdererConfig{Name: name, URL: ep.URL, GRPCOptions: ep.GRPCOptions, TLSCACert: cert}, nil
}

// OrdererConfigs returns all orderers ordered by name
func (c *Config) OrdererConfigs() ([]fab.OrdererConfig, error) {
	var orderers []fab.OrdererConfig
	for _, name := range sortedNames(c.Orderers) {
		o, err := c.OrdererConfig(name)
		if err != nil {
			return nil, err
		}
		orderers = append(orderers, *o)
	}
	return orderers, nil
}

// PeerConfig returns the named peer
func (c *Config) PeerConfig(name string) (*fab.PeerConfig, error) {
	ep, ok := c.Peers[name]
	if !ok {
		return nil, errors.Errorf("peer [%s] not found in config", name)
	}
	cert, err := loadCACert(&ep)
	if err != nil {
		return nil, errors.WithMessagef(err, "peer [%s]", name)
	}
	return &fab.PeerConfig{Name: name, URL: ep.URL, GRPCOptions: ep.GRPCOptions, TLSCACert: cert}, nil
}

// PeerNames returns the names of all configured peers, sorted
func (c *Config) PeerNames() []string {
	return sortedNames(c.Peers)
}

// OrdererNames returns the names of all configured orderers, sorted
func (c *Config) OrdererNames() []string {
	return sortedNames(c.Orderers)
}

// RetryOpts returns the configured retry policy. A zero interval disables retrying.
func (c *Config) RetryOpts() retry.Opts {
	if c.Retry.Interval == 0 {
		return retry.NoRetry
	}
	opts := retry.DefaultOpts
	opts.Interval = c.Retry.Interval
	opts.Attempts = c.Retry.Attempts
	return opts
}

// Timeouts returns the configured timeouts; unset ones fall back to the defaults
func (c *Config) Timeouts() fab.Timeouts {
	t := fab.Timeouts{}
	if c.Timeout.Connection > 0 {
		t[fab.PeerConnection] = c.Timeout.Connection
		t[fab.OrdererConnection] = c.Timeout.Connection
	}
	if c.Timeout.Response > 0 {
		t[fab.PeerResponse] = c.Timeout.Response
		t[fab.OrdererResponse] = c.Timeout.Response
	}
	return t
}

// LoggerProvider returns a logger provider writing to w at the configured levels
func (c *Config) LoggerProvider(w io.Writer) (*kitlog.Provider, error) {
	var opts []kitlog.Option
	if c.Client.Logging.Level != "" {
		lvl, err := metadata.ParseLevel(c.Client.Logging.Level)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kitlog.WithLevel("", lvl))
	}
	for module, level := range c.Client.Logging.Modules {
		lvl, err := metadata.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kitlog.WithLevel(module, lvl))
	}
	return kitlog.New(w, opts...), nil
}

func loadCACert(ep *EndpointConfig) (*x509.Certificate, error) {
	if err := ep.TLSCACerts.LoadBytes(); err != nil {
		return nil, err
	}
	cert, _, err := ep.TLSCACerts.TLSCert()
	return cert, err
}

// resolvePath substitutes variables and resolves relative paths against dir
func resolvePath(path, dir string, vars map[string]string) string {
	if path == "" {
		return ""
	}
	path = pathvar.SubstWith(path, vars)
	if dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return path
}

func sortedNames(endpoints map[string]EndpointConfig) []string {
	names := make([]string, 0, len(endpoints))
	for name := range endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fabsdk assembles the channel setup client from configuration: the
// admin signing identity, orderer and peer endpoints, logging and metrics.
//
//  Basic Flow:
//  1) Call New with a config provider, e.g. config.FromFile
//  2) Obtain the resource management client with ResourceMgmt
//  3) Look up peers and orderers by name for the setup requests
package fabsdk

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fabsetup/fabric-setup-go/pkg/client/resmgmt"
	"github.com/fabsetup/fabric-setup-go/pkg/common/logging"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
	"github.com/fabsetup/fabric-setup-go/pkg/core/config"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/fabsetup/fabric-setup-go/pkg/core/metrics"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/orderer"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/peer"
	mspimpl "github.com/fabsetup/fabric-setup-go/pkg/msp"
)

const loggerModule = "fabsetup/sdk"

// FabricSDK provides access to the clients and endpoints described by the configuration
type FabricSDK struct {
	opts        options
	config      *config.Config
	logProvider api.LoggerProvider
	logger      *logging.Logger
	metrics     *metrics.Metrics

	signerOnce sync.Once
	signer     msp.SigningIdentity
	signerErr  error
}

type options struct {
	logWriter   io.Writer
	logProvider api.LoggerProvider
	signer      msp.SigningIdentity
	registerer  prometheus.Registerer
}

// Option configures the SDK
type Option func(opts *options) error

// WithLoggerProvider replaces the logger provider built from the configuration
func WithLoggerProvider(provider api.LoggerProvider) Option {
	return func(opts *options) error {
		opts.logProvider = provider
		return nil
	}
}

// WithLogWriter sets the writer of the configured logger provider (default stderr)
func WithLogWriter(w io.Writer) Option {
	return func(opts *options) error {
		opts.logWriter = w
		return nil
	}
}

// WithSigningIdentity replaces the identity loaded from the client credentials
func WithSigningIdentity(signer msp.SigningIdentity) Option {
	return func(opts *options) error {
		if signer == nil {
			return errors.New("signing identity is nil")
		}
		opts.signer = signer
		return nil
	}
}

// WithMetricsRegisterer registers the setup metrics with reg
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(opts *options) error {
		opts.registerer = reg
		return nil
	}
}

// New initializes the SDK from the configuration supplied by configProvider
func New(configProvider config.Provider, opts ...Option) (*FabricSDK, error) {
	sdk := &FabricSDK{}
	for _, option := range opts {
		if err := option(&sdk.opts); err != nil {
			return nil, errors.WithMessage(err, "Error in option passed to New")
		}
	}

	cfg, err := config.Load(configProvider)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to initialize configuration")
	}
	sdk.config = cfg

	sdk.logProvider = sdk.opts.logProvider
	if sdk.logProvider == nil {
		provider, err := cfg.LoggerProvider(sdk.opts.logWriter)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to initialize logger provider")
		}
		sdk.logProvider = provider
	}
	sdk.logger = logging.NewLogger(loggerModule, sdk.logProvider)

	sdk.metrics = metrics.New(cfg.Metrics.Namespace)
	if sdk.opts.registerer != nil {
		if err := sdk.metrics.Register(sdk.opts.registerer); err != nil {
			return nil, err
		}
	}

	sdk.logger.Debugf("SDK initialized with %d orderer(s) and %d peer(s)", len(cfg.Orderers), len(cfg.Peers))
	return sdk, nil
}

// Config returns the loaded configuration
func (sdk *FabricSDK) Config() *config.Config {
	return sdk.config
}

// LoggerProvider returns the logger provider shared by all clients of the SDK
func (sdk *FabricSDK) LoggerProvider() api.LoggerProvider {
	return sdk.logProvider
}

// Metrics returns the setup metrics
func (sdk *FabricSDK) Metrics() *metrics.Metrics {
	return sdk.metrics
}

// SigningIdentity returns the admin identity, loaded on first use from the client credentials
func (sdk *FabricSDK) SigningIdentity() (msp.SigningIdentity, error) {
	sdk.signerOnce.Do(func() {
		if sdk.opts.signer != nil {
			sdk.signer = sdk.opts.signer
			return
		}
		if err := sdk.config.ValidateIdentity(); err != nil {
			sdk.signerErr = err
			return
		}
		c := sdk.config.Client
		signer, err := mspimpl.NewSigningIdentityFromFiles(c.MSPID, c.CertPath, c.KeyPath)
		if err != nil {
			sdk.signerErr = err
			return
		}
		sdk.signer = signer
	})
	return sdk.signer, sdk.signerErr
}

// Orderer returns the named orderer. An empty name selects the first
// configured orderer by name.
func (sdk *FabricSDK) Orderer(name string) (*orderer.Orderer, error) {
	if name == "" {
		names := sdk.config.OrdererNames()
		if len(names) == 0 {
			return nil, errors.New("no orderer configured")
		}
		name = names[0]
	}
	ordererCfg, err := sdk.config.OrdererConfig(name)
	if err != nil {
		return nil, err
	}
	return orderer.New(
		orderer.FromOrdererConfig(ordererCfg),
		orderer.WithTimeouts(sdk.config.Timeouts()),
		orderer.WithLogger(sdk.logProvider),
	)
}

// Orderers returns all configured orderers ordered by name
func (sdk *FabricSDK) Orderers() ([]fab.Orderer, error) {
	var orderers []fab.Orderer
	for _, name := range sdk.config.OrdererNames() {
		o, err := sdk.Orderer(name)
		if err != nil {
			return nil, err
		}
		orderers = append(orderers, o)
	}
	return orderers, nil
}

// Peer returns the named peer
func (sdk *FabricSDK) Peer(name string) (*peer.Peer, error) {
	peerCfg, err := sdk.config.PeerConfig(name)
	if err != nil {
		return nil, err
	}
	return peer.New(
		peer.FromPeerConfig(peerCfg),
		peer.WithTimeouts(sdk.config.Timeouts()),
		peer.WithLogger(sdk.logProvider),
	)
}

// ResourceMgmt returns a channel management client signing with the admin
// identity. The first configured orderer and the configured retry policy
// are its defaults; opts are applied after them.
func (sdk *FabricSDK) ResourceMgmt(opts ...resmgmt.ClientOption) (*resmgmt.Client, error) {
	signer, err := sdk.SigningIdentity()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to load signing identity")
	}

	clientOpts := []resmgmt.ClientOption{
		resmgmt.WithDefaultRetry(sdk.config.RetryOpts()),
		resmgmt.WithLoggerProvider(sdk.logProvider),
		resmgmt.WithMetrics(sdk.metrics),
	}
	if len(sdk.config.Orderers) > 0 {
		o, err := sdk.Orderer("")
		if err != nil {
			return nil, errors.WithMessage(err, "failed to create default orderer")
		}
		clientOpts = append(clientOpts, resmgmt.WithDefaultOrderer(o))
	}

	return resmgmt.New(signer, append(clientOpts, opts...)...)
}

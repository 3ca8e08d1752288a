/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package comm dials the gRPC connections used to reach orderers and peers.
package comm

import (
	reqContext "context"
	"crypto/tls"
	"crypto/x509"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
)

const (
	// GRPC max message size (same as Fabric)
	maxCallRecvMsgSize = 100 * 1024 * 1024
	maxCallSendMsgSize = 100 * 1024 * 1024

	defaultConnectTimeout = 3 * time.Second
)

type params struct {
	hostOverride    string
	certificate     *x509.Certificate
	keepAliveParams keepalive.ClientParameters
	failFast        bool
	allowInsecure   bool
	connectTimeout  time.Duration
}

func defaultParams() *params {
	return &params{
		failFast:       true,
		connectTimeout: defaultConnectTimeout,
	}
}

// Option configures a Connector
type Option func(p *params)

// WithHostOverride sets the host name that will be used to resolve the TLS certificate
func WithHostOverride(value string) Option {
	return func(p *params) {
		p.hostOverride = value
	}
}

// WithCertificate sets the X509 certificate used for the TLS connection
func WithCertificate(value *x509.Certificate) Option {
	return func(p *params) {
		p.certificate = value
	}
}

// WithKeepAliveParams sets the GRPC keep-alive parameters
func WithKeepAliveParams(value keepalive.ClientParameters) Option {
	return func(p *params) {
		p.keepAliveParams = value
	}
}

// WithFailFast sets the GRPC fail-fast parameter
func WithFailFast(value bool) Option {
	return func(p *params) {
		p.failFast = value
	}
}

// WithConnectTimeout sets the GRPC connection timeout
func WithConnectTimeout(value time.Duration) Option {
	return func(p *params) {
		if value > 0 {
			p.connectTimeout = value
		}
	}
}

// WithInsecure indicates to fall back to an insecure connection if the
// connection URL does not specify a protocol
func WithInsecure(value bool) Option {
	return func(p *params) {
		p.allowInsecure = value
	}
}

// FromGRPCOptions converts the loosely typed grpcOptions of an orderer or peer
// configuration (ssl-target-name-override, keep-alive-*, fail-fast, allow-insecure)
func FromGRPCOptions(grpcOptions map[string]interface{}) []Option {
	var opts []Option

	if v, ok := grpcOptions["ssl-target-name-override"]; ok {
		opts = append(opts, WithHostOverride(cast.ToString(v)))
	}

	var kap keepalive.ClientParameters
	if v, ok := grpcOptions["keep-alive-time"]; ok {
		kap.Time = cast.ToDuration(v)
	}
	if v, ok := grpcOptions["keep-alive-timeout"]; ok {
		kap.Timeout = cast.ToDuration(v)
	}
	if v, ok := grpcOptions["keep-alive-permit"]; ok {
		kap.PermitWithoutStream = cast.ToBool(v)
	}
	opts = append(opts, WithKeepAliveParams(kap))

	if v, ok := grpcOptions["fail-fast"]; ok {
		opts = append(opts, WithFailFast(cast.ToBool(v)))
	}
	if v, ok := grpcOptions["allow-insecure"]; ok {
		opts = append(opts, WithInsecure(cast.ToBool(v)))
	}
	return opts
}

// Connector dials one endpoint with a fixed set of dial options
type Connector struct {
	url            string
	address        string
	secured        bool
	connectTimeout time.Duration
	dialOpts       []grpc.DialOption
}

// NewConnector returns a Connector for the url
func NewConnector(url string, opts ...Option) (*Connector, error) {
	if url == "" {
		return nil, errors.New("server URL not specified")
	}

	p := defaultParams()
	for _, opt := range opts {
		opt(p)
	}

	c := &Connector{
		url:            url,
		address:        ToAddress(url),
		secured:        AttemptSecured(url, p.allowInsecure),
		connectTimeout: p.connectTimeout,
	}

	dialOpts, err := newDialOpts(p, c.secured)
	if err != nil {
		return nil, err
	}
	c.dialOpts = dialOpts

	return c, nil
}

// URL returns the configured URL
func (c *Connector) URL() string {
	return c.url
}

// Address returns the dial target
func (c *Connector) Address() string {
	return c.address
}

// Secured reports whether connections use TLS
func (c *Connector) Secured() bool {
	return c.secured
}

// DialContext blocks until the connection is established, the connect timeout
// elapses or ctx is done.
func (c *Connector) DialContext(ctx reqContext.Context) (*grpc.ClientConn, error) {
	ctx, cancel := reqContext.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	opts := append([]grpc.DialOption{grpc.WithBlock()}, c.dialOpts...)
	conn, err := grpc.DialContext(ctx, c.address, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect to %s", c.url)
	}
	return conn, nil
}

func newDialOpts(p *params, secured bool) ([]grpc.DialOption, error) {
	var dialOpts []grpc.DialOption

	if p.keepAliveParams.Time > 0 || p.keepAliveParams.Timeout > 0 {
		dialOpts = append(dialOpts, grpc.WithKeepaliveParams(p.keepAliveParams))
	}

	dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(
		grpc.WaitForReady(!p.failFast),
		grpc.MaxCallRecvMsgSize(maxCallRecvMsgSize),
		grpc.MaxCallSendMsgSize(maxCallSendMsgSize)))

	if secured {
		tlsConfig, err := TLSConfig(p.certificate, p.hostOverride)
		if err != nil {
			return nil, err
		}
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
	} else {
		dialOpts = append(dialOpts, grpc.WithInsecure())
	}

	return dialOpts, nil
}

// TLSConfig returns the TLS configuration trusting the system roots plus cert,
// verifying the server as serverName when set.
func TLSConfig(cert *x509.Certificate, serverName string) (*tls.Config, error) {
	certPool, err := x509.SystemCertPool()
	if err != nil || certPool == nil {
		certPool = x509.NewCertPool()
	}
	if cert != nil {
		if time.Now().After(cert.NotAfter) {
			return nil, errors.Errorf("TLS CA certificate expired on %s", cert.NotAfter)
		}
		certPool.AddCert(cert)
	}
	return &tls.Config{RootCAs: certPool, ServerName: serverName}, nil
}

// LoadCertificate parses a PEM encoded certificate
func LoadCertificate(pemBytes []byte) (*x509.Certificate, error) {
	cert, err := decodeCertificate(pemBytes)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid TLS CA certificate")
	}
	return cert, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package peer implements fab.ProposalProcessor over the Endorser gRPC service.
package peer

import (
	reqContext "context"
	"time"

	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/logging"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/comm"
)

const loggerModule = "fabsetup/peer"

// Peer represents a node in the target blockchain network to which
// transaction proposals are sent
type Peer struct {
	name            string
	url             string
	commOpts        []comm.Option
	responseTimeout time.Duration
	logProvider     api.LoggerProvider
	processor       *peerEndorser
}

// Option describes a functional parameter for the New constructor
type Option func(*Peer) error

// New Returns a new Peer instance
func New(opts ...Option) (*Peer, error) {
	peer := &Peer{
		responseTimeout: fab.DefaultTimeouts[fab.PeerResponse],
	}
	peer.commOpts = append(peer.commOpts, comm.WithConnectTimeout(fab.DefaultTimeouts[fab.PeerConnection]))

	for _, opt := range opts {
		if err := opt(peer); err != nil {
			return nil, err
		}
	}

	connector, err := comm.NewConnector(peer.url, peer.commOpts...)
	if err != nil {
		return nil, errors.WithMessage(err, "peer connector creation failed")
	}

	peer.processor = &peerEndorser{
		connector:       connector,
		target:          peer.url,
		responseTimeout: peer.responseTimeout,
		logger:          logging.NewLogger(loggerModule, peer.logProvider),
	}
	return peer, nil
}

// WithURL is a functional option for the peer.New constructor that configures the peer's URL
func WithURL(url string) Option {
	return func(p *Peer) error {
		p.url = url
		return nil
	}
}

// WithConnectionOptions appends gRPC connection options
func WithConnectionOptions(opts ...comm.Option) Option {
	return func(p *Peer) error {
		p.commOpts = append(p.commOpts, opts...)
		return nil
	}
}

// WithTimeouts sets the connection and response timeouts
func WithTimeouts(timeouts fab.Timeouts) Option {
	return func(p *Peer) error {
		p.commOpts = append(p.commOpts, comm.WithConnectTimeout(timeouts.TimeoutOrDefault(fab.PeerConnection)))
		p.responseTimeout = timeouts.TimeoutOrDefault(fab.PeerResponse)
		return nil
	}
}

// WithLogger sets the logger provider
func WithLogger(provider api.LoggerProvider) Option {
	return func(p *Peer) error {
		p.logProvider = provider
		return nil
	}
}

// FromPeerConfig is a functional option for the peer.New constructor that configures a new peer
// from a fab.PeerConfig struct
func FromPeerConfig(peerCfg *fab.PeerConfig) Option {
	return func(p *Peer) error {
		if peerCfg == nil {
			return errors.New("peer config is required")
		}
		p.name = peerCfg.Name
		p.url = peerCfg.URL
		p.commOpts = append(p.commOpts, comm.WithCertificate(peerCfg.TLSCACert))
		p.commOpts = append(p.commOpts, comm.FromGRPCOptions(peerCfg.GRPCOptions)...)
		return nil
	}
}

// Name gets the Peer name.
func (p *Peer) Name() string {
	return p.name
}

// URL gets the Peer URL. Required property for the instance objects.
func (p *Peer) URL() string {
	return p.url
}

// ProcessTransactionProposal sends the created proposal to peer for endorsement.
func (p *Peer) ProcessTransactionProposal(ctx reqContext.Context, proposal fab.ProcessProposalRequest) (*fab.TransactionProposalResponse, error) {
	return p.processor.ProcessTransactionProposal(ctx, proposal)
}

func (p *Peer) String() string {
	return p.url
}

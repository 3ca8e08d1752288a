/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resmgmt drives channel setup in a Fabric network to completion:
// creating channels, joining peers, updating anchor peers and finding live
// orderers.
//
// Each setup action is idempotent from the caller's point of view. Transient
// refusals of a coordinator that is not ready yet are retried at a fixed
// interval with a fresh transaction id per attempt, "already done" answers are
// reported as success, and every other failure is returned unchanged.
//
//  Basic Flow:
//  1) Prepare client with a signing identity and a default orderer
//  2) Call CreateChannel, then JoinChannel once per peer
//  3) Call UpdateAnchorPeers once per organization
package resmgmt

import (
	reqContext "context"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hyperledger/fabric-protos-go/common"
	ab "github.com/hyperledger/fabric-protos-go/orderer"
	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/retry"
	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
	"github.com/fabsetup/fabric-setup-go/pkg/common/logging"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/fabsetup/fabric-setup-go/pkg/core/metrics"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/resource"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/txn"
)

const (
	loggerModule = "fabsetup/resmgmt"

	// SystemChannelID is the orderer system channel, used when no channel is named
	SystemChannelID = "testchainid"

	actionCreateChannel     = "create_channel"
	actionJoinChannel       = "join_channel"
	actionUpdateAnchorPeers = "update_anchor_peers"
)

// CreateChannelRequest contains the parameters for creating a channel
type CreateChannelRequest struct {
	ChannelID         string
	ChannelConfig     io.Reader             // ChannelConfig data source
	ChannelConfigPath string                // Convenience option to use the named file as ChannelConfig reader
	SigningIdentities []msp.SigningIdentity // Users that sign channel configuration; defaults to the client identity
}

// JoinChannelRequest contains the parameters for joining one peer to a channel
type JoinChannelRequest struct {
	ChannelID string
	Peer      fab.ProposalProcessor
}

// UpdateAnchorPeersRequest contains the parameters for updating the anchor
// peers of an organization
type UpdateAnchorPeersRequest struct {
	ChannelID             string
	AnchorPeersConfig     io.Reader
	AnchorPeersConfigPath string // Convenience option to use the named file as AnchorPeersConfig reader
}

// Response describes how a setup action ended
type Response struct {
	Outcome Outcome `yaml:"outcome"`
	// TransactionID of the last attempt
	TransactionID fab.TransactionID `yaml:"txId,omitempty"`
	Attempts      int               `yaml:"attempts"`
	// Target is the orderer or peer the action was sent to
	Target string `yaml:"target"`
	// BlockNumber of the block committing an anchor peer update, set with WithCommitWait
	BlockNumber *uint64 `yaml:"blockNumber,omitempty"`
}

// Client enables managing channels in a Fabric network.
type Client struct {
	signer      msp.SigningIdentity
	orderer     fab.Orderer
	retry       retry.Opts
	logProvider api.LoggerProvider
	logger      *logging.Logger
	metrics     *metrics.Metrics
}

// New returns a channel management client signing with signer
func New(signer msp.SigningIdentity, opts ...ClientOption) (*Client, error) {
	if signer == nil {
		return nil, errors.New("signing identity is required")
	}

	rc := &Client{
		signer: signer,
		retry:  retry.DefaultOpts,
	}
	for _, opt := range opts {
		if err := opt(rc); err != nil {
			return nil, err
		}
	}
	rc.logger = logging.NewLogger(loggerModule, rc.logProvider)

	return rc, nil
}

// CreateChannel sends the channel creation transaction to the orderer until
// the orderer accepts it. While the orderer answers that the consenter of the
// channel has not started yet the request is retried with a new transaction id.
func (rc *Client) CreateChannel(ctx reqContext.Context, req CreateChannelRequest, options ...RequestOption) (Response, error) {
	opts, err := rc.prepareRequestOpts(options...)
	if err != nil {
		return Response{Outcome: FatalFailure}, err
	}
	if _, err = ValidateChannelName(req.ChannelID, true); err != nil {
		return Response{Outcome: FatalFailure}, err
	}
	orderer, err := rc.requestOrderer(opts)
	if err != nil {
		return Response{Outcome: FatalFailure}, err
	}

	configTx, err := readConfig(req.ChannelConfig, req.ChannelConfigPath, rc.logger)
	if err != nil {
		return Response{Outcome: FatalFailure}, errors.WithMessage(err, "reading channel config failed")
	}
	chConfig, err := resource.ExtractChannelConfig(configTx)
	if err != nil {
		return Response{Outcome: FatalFailure}, errors.WithMessage(err, "extracting channel config failed")
	}

	// Signing user has to belong to one of configured channel organisations
	signers := []msp.SigningIdentity{rc.signer}
	if len(req.SigningIdentities) > 0 {
		signers = nil
		for _, id := range req.SigningIdentities {
			if id != nil {
				signers = append(signers, id)
			}
		}
	}
	if len(signers) == 0 {
		return Response{Outcome: FatalFailure}, errors.New("must provide signing user")
	}

	var configSignatures []*common.ConfigSignature
	for _, signer := range signers {
		configSignature, err := resource.CreateConfigSignature(signer, chConfig)
		if err != nil {
			return Response{Outcome: FatalFailure}, errors.WithMessage(err, "signing configuration failed")
		}
		configSignatures = append(configSignatures, configSignature)
	}

	rc.logger.Debugf("creating channel [%s] with %d signature(s)", req.ChannelID, len(configSignatures))

	resp := Response{Target: orderer.URL()}
	err = rc.invoke(ctx, actionCreateChannel, opts, &resp, func(ctx reqContext.Context) error {
		txh, err := rc.newHeader(&resp)
		if err != nil {
			return err
		}
		env, err := resource.CreateConfigUpdateEnvelope(rc.signer, txh, req.ChannelID, chConfig, configSignatures)
		if err != nil {
			return errors.WithMessage(err, "creating config update envelope failed")
		}
		br, err := orderer.SendBroadcast(ctx, env)
		if err != nil {
			return errors.WithMessage(err, "broadcast of channel creation failed")
		}
		return classifyBroadcast(br, true)
	})
	if err != nil {
		rc.logger.Errorf("create channel [%s] ended with %s: %s", req.ChannelID, resp.Outcome, err)
		return resp, err
	}

	rc.logger.Infof("channel [%s] created, txId [%s]", req.ChannelID, resp.TransactionID)
	return resp, nil
}

// JoinChannel joins one peer to the channel. The genesis block is fetched
// from the orderer and sent to the peer in a cscc JoinChain proposal.
// A peer that has joined before is reported as AlreadyDone.
func (rc *Client) JoinChannel(ctx reqContext.Context, req JoinChannelRequest, options ...RequestOption) (Response, error) {
	opts, err := rc.prepareRequestOpts(options...)
	if err != nil {
		return Response{Outcome: FatalFailure}, err
	}
	if _, err = ValidateChannelName(req.ChannelID, true); err != nil {
		return Response{Outcome: FatalFailure}, err
	}
	if req.Peer == nil {
		return Response{Outcome: FatalFailure}, status.New(status.ClientStatus, status.MissingParameter.ToInt32(), "peer is required", nil)
	}
	orderer, err := rc.requestOrderer(opts)
	if err != nil {
		return Response{Outcome: FatalFailure}, err
	}

	resp := Response{Target: req.Peer.URL()}
	err = rc.invoke(ctx, actionJoinChannel, opts, &resp, func(ctx reqContext.Context) error {
		genesisBlock, err := rc.GenesisBlock(ctx, req.ChannelID, WithOrderer(orderer))
		if err != nil {
			return errors.WithMessage(err, "genesis block retrieval failed")
		}

		txh, err := rc.newHeader(&resp)
		if err != nil {
			return err
		}
		proposal, err := resource.CreateJoinChannelProposal(rc.signer, txh, genesisBlock)
		if err != nil {
			return errors.WithMessage(err, "creating join channel proposal failed")
		}

		tpr, err := req.Peer.ProcessTransactionProposal(ctx, fab.ProcessProposalRequest{SignedProposal: proposal})
		if err != nil {
			return rc.classifyJoinError(req, err, &resp)
		}
		if tpr == nil {
			return errors.New("peer returned no proposal response")
		}
		if tpr.Status != http.StatusOK {
			return status.New(status.EndorserServerStatus, tpr.Status, tpr.GetResponse().GetMessage(), []interface{}{tpr.Endorser})
		}
		return nil
	})
	if err != nil {
		rc.logger.Errorf("join of peer [%s] to channel [%s] ended with %s: %s", resp.Target, req.ChannelID, resp.Outcome, err)
		return resp, err
	}

	if resp.Outcome == Success {
		rc.logger.Infof("peer [%s] joined channel [%s]", resp.Target, req.ChannelID)
	}
	return resp, nil
}

func (rc *Client) classifyJoinError(req JoinChannelRequest, err error, resp *Response) error {
	symptom := joinSymptom(err)
	switch {
	case isJoinTransient(symptom):
		rc.logger.Warnf("peer [%s] cannot join channel [%s] yet: %s", resp.Target, req.ChannelID, symptom)
		return status.Wrap(err, status.EndorserClientStatus, status.PeerNotReady)
	case strings.Contains(symptom, ledgerAlreadyExists):
		rc.logger.Infof("peer [%s] has already joined channel [%s]", resp.Target, req.ChannelID)
		resp.Outcome = AlreadyDone
		return nil
	default:
		return err
	}
}

// UpdateAnchorPeers sends an anchor peer config update signed by the client
// identity. It is attempted once: any status other than SUCCESS fails,
// including SERVICE_UNAVAILABLE.
func (rc *Client) UpdateAnchorPeers(ctx reqContext.Context, req UpdateAnchorPeersRequest, options ...RequestOption) (Response, error) {
	opts, err := rc.prepareRequestOpts(options...)
	if err != nil {
		return Response{Outcome: FatalFailure}, err
	}
	if _, err = ValidateChannelName(req.ChannelID, true); err != nil {
		return Response{Outcome: FatalFailure}, err
	}
	orderer, err := rc.requestOrderer(opts)
	if err != nil {
		return Response{Outcome: FatalFailure}, err
	}

	configTx, err := readConfig(req.AnchorPeersConfig, req.AnchorPeersConfigPath, rc.logger)
	if err != nil {
		return Response{Outcome: FatalFailure}, errors.WithMessage(err, "reading anchor peers config failed")
	}
	config, err := resource.ExtractChannelConfig(configTx)
	if err != nil {
		return Response{Outcome: FatalFailure}, errors.WithMessage(err, "extracting anchor peers config failed")
	}
	configSignature, err := resource.CreateConfigSignature(rc.signer, config)
	if err != nil {
		return Response{Outcome: FatalFailure}, errors.WithMessage(err, "signing configuration failed")
	}

	var lastBlock uint64
	if opts.CommitWait {
		block, err := rc.fetchBlock(ctx, req.ChannelID, orderer, resource.NewNewestSeekPosition())
		if err != nil {
			return Response{Outcome: FatalFailure}, errors.WithMessage(err, "newest block retrieval failed")
		}
		lastBlock = block.GetHeader().GetNumber()
	}

	resp := Response{Target: orderer.URL()}
	single := *opts
	single.Retry = &retry.NoRetry
	err = rc.invoke(ctx, actionUpdateAnchorPeers, &single, &resp, func(ctx reqContext.Context) error {
		txh, err := rc.newHeader(&resp)
		if err != nil {
			return err
		}
		env, err := resource.CreateConfigUpdateEnvelope(rc.signer, txh, req.ChannelID, config, []*common.ConfigSignature{configSignature})
		if err != nil {
			return errors.WithMessage(err, "creating config update envelope failed")
		}
		br, err := orderer.SendBroadcast(ctx, env)
		if err != nil {
			return errors.WithMessage(err, "broadcast of anchor peers update failed")
		}
		return classifyBroadcast(br, false)
	})
	if err != nil {
		rc.logger.Errorf("anchor peers update of channel [%s] failed: %s", req.ChannelID, err)
		return resp, err
	}

	if opts.CommitWait {
		block, err := rc.fetchBlock(ctx, req.ChannelID, orderer, resource.NewSpecificSeekPosition(lastBlock+1))
		if err != nil {
			return resp, errors.WithMessage(err, "waiting for anchor peers update commit failed")
		}
		number := block.GetHeader().GetNumber()
		resp.BlockNumber = &number
	}

	rc.logger.Infof("anchor peers of channel [%s] updated, txId [%s]", req.ChannelID, resp.TransactionID)
	return resp, nil
}

// GenesisBlock returns block 0 of the channel from the orderer. An empty
// channel id falls back to the system channel.
func (rc *Client) GenesisBlock(ctx reqContext.Context, channelID string, options ...RequestOption) (*common.Block, error) {
	opts, err := rc.prepareRequestOpts(options...)
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		rc.logger.Warnf("no channel specified, default to using system channel [%s]", SystemChannelID)
		channelID = SystemChannelID
	}
	orderer, err := rc.requestOrderer(opts)
	if err != nil {
		return nil, err
	}
	return rc.fetchBlock(ctx, channelID, orderer, resource.NewSpecificSeekPosition(0))
}

func (rc *Client) fetchBlock(ctx reqContext.Context, channelID string, orderer fab.Orderer, pos *ab.SeekPosition) (*common.Block, error) {
	env, err := resource.CreateSeekEnvelope(rc.signer, channelID, pos)
	if err != nil {
		return nil, errors.WithMessage(err, "creating seek envelope failed")
	}
	block, err := orderer.SendDeliver(ctx, env)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, errors.Errorf("orderer [%s] delivered no block for channel [%s]", orderer.URL(), channelID)
	}
	return block, nil
}

// invoke runs attempt under the retry policy of the request and resolves the outcome
func (rc *Client) invoke(ctx reqContext.Context, action string, opts *requestOptions, resp *Response, attempt func(ctx reqContext.Context) error) error {
	retryOpts := rc.retry
	if opts.Retry != nil {
		retryOpts = *opts.Retry
	}

	start := time.Now()
	invoker := retry.NewInvoker(retry.New(retryOpts),
		retry.WithLogger(rc.logger),
		retry.WithBeforeRetry(func(err error) {
			rc.logger.Infof("%s: attempt #%d is retried after %s: %s", action, resp.Attempts, retryOpts.Interval, err)
			rc.metrics.Retried(action)
		}),
	)
	_, err := invoker.Invoke(ctx, func(ctx reqContext.Context) (interface{}, error) {
		resp.Attempts++
		rc.metrics.Attempted(action)
		return nil, attempt(ctx)
	})

	err = resolveOutcome(ctx, resp, err)
	rc.metrics.Completed(action, resp.Outcome.String(), time.Since(start))
	return err
}

// newHeader mints the transaction header of an attempt
func (rc *Client) newHeader(resp *Response) (*fab.TransactionHeader, error) {
	txh, err := txn.NewHeader(rc.signer)
	if err != nil {
		return nil, errors.WithMessage(err, "creation of transaction header failed")
	}
	resp.TransactionID = txh.ID
	return txh, nil
}

func (rc *Client) requestOrderer(opts *requestOptions) (fab.Orderer, error) {
	if opts.Orderer != nil {
		return opts.Orderer, nil
	}
	if rc.orderer != nil {
		return rc.orderer, nil
	}
	return nil, status.New(status.ClientStatus, status.MissingParameter.ToInt32(), "orderer is required", nil)
}

// prepareRequestOpts prepares request options
func (rc *Client) prepareRequestOpts(options ...RequestOption) (*requestOptions, error) {
	opts := &requestOptions{}
	for _, option := range options {
		if err := option(opts); err != nil {
			return nil, errors.WithMessage(err, "Failed to read opts")
		}
	}
	return opts, nil
}

func readConfig(r io.Reader, path string, logger *logging.Logger) ([]byte, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening config file failed")
		}
		defer loggedClose(f, logger)
		r = f
	}
	if r == nil {
		return nil, status.New(status.ClientStatus, status.MissingParameter.ToInt32(), "config reader or path is required", nil)
	}
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading config failed")
	}
	return b, nil
}

func loggedClose(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("closing resource failed: %s", err)
	}
}

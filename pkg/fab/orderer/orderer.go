/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package orderer implements fab.Orderer over the AtomicBroadcast gRPC service.
package orderer

import (
	reqContext "context"
	"io"
	"time"

	"github.com/hyperledger/fabric-protos-go/common"
	ab "github.com/hyperledger/fabric-protos-go/orderer"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/multi"
	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
	"github.com/fabsetup/fabric-setup-go/pkg/common/logging"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/comm"
)

const loggerModule = "fabsetup/orderer"

// Orderer allows a client to broadcast a transaction and fetch blocks.
type Orderer struct {
	url             string
	commOpts        []comm.Option
	connector       *comm.Connector
	responseTimeout time.Duration
	logProvider     api.LoggerProvider
	logger          *logging.Logger
}

// Option describes a functional parameter for the New constructor
type Option func(*Orderer) error

// New Returns a Orderer instance
func New(opts ...Option) (*Orderer, error) {
	orderer := &Orderer{
		responseTimeout: fab.DefaultTimeouts[fab.OrdererResponse],
	}
	orderer.commOpts = append(orderer.commOpts, comm.WithConnectTimeout(fab.DefaultTimeouts[fab.OrdererConnection]))

	for _, opt := range opts {
		if err := opt(orderer); err != nil {
			return nil, err
		}
	}

	orderer.logger = logging.NewLogger(loggerModule, orderer.logProvider)

	connector, err := comm.NewConnector(orderer.url, orderer.commOpts...)
	if err != nil {
		return nil, errors.WithMessage(err, "orderer connector creation failed")
	}
	orderer.connector = connector

	return orderer, nil
}

// WithURL is a functional option for the orderer.New constructor that configures the orderer's URL.
func WithURL(url string) Option {
	return func(o *Orderer) error {
		o.url = url
		return nil
	}
}

// WithConnectionOptions appends gRPC connection options
func WithConnectionOptions(opts ...comm.Option) Option {
	return func(o *Orderer) error {
		o.commOpts = append(o.commOpts, opts...)
		return nil
	}
}

// WithTimeouts sets the connection and response timeouts
func WithTimeouts(timeouts fab.Timeouts) Option {
	return func(o *Orderer) error {
		o.commOpts = append(o.commOpts, comm.WithConnectTimeout(timeouts.TimeoutOrDefault(fab.OrdererConnection)))
		o.responseTimeout = timeouts.TimeoutOrDefault(fab.OrdererResponse)
		return nil
	}
}

// WithLogger sets the logger provider
func WithLogger(provider api.LoggerProvider) Option {
	return func(o *Orderer) error {
		o.logProvider = provider
		return nil
	}
}

// FromOrdererConfig is a functional option for the orderer.New constructor that configures a new orderer
// from a fab.OrdererConfig struct
func FromOrdererConfig(ordererCfg *fab.OrdererConfig) Option {
	return func(o *Orderer) error {
		if ordererCfg == nil {
			return errors.New("orderer config is required")
		}
		o.url = ordererCfg.URL
		o.commOpts = append(o.commOpts, comm.WithCertificate(ordererCfg.TLSCACert))
		o.commOpts = append(o.commOpts, comm.FromGRPCOptions(ordererCfg.GRPCOptions)...)
		return nil
	}
}

// URL Get the Orderer url. Required property for the instance objects.
// Returns the address of the Orderer.
func (o *Orderer) URL() string {
	return o.url
}

func (o *Orderer) conn(ctx reqContext.Context) (*grpc.ClientConn, error) {
	conn, err := o.connector.DialContext(ctx)
	if err != nil {
		if rpcStatus, ok := grpcstatus.FromError(errors.Cause(err)); ok {
			return nil, errors.WithMessage(status.NewFromGRPCStatus(rpcStatus), "connection failed")
		}
		return nil, status.New(status.OrdererClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), nil)
	}
	return conn, nil
}

func (o *Orderer) releaseConn(conn *grpc.ClientConn) {
	if err := conn.Close(); err != nil {
		o.logger.Debugf("unable to close connection [%s]", err)
	}
}

// SendBroadcast sends the envelope to the orderer and returns its first reply.
// Non-success replies are returned as data so the caller can classify them.
func (o *Orderer) SendBroadcast(ctx reqContext.Context, envelope *fab.SignedEnvelope) (*fab.BroadcastResponse, error) {
	if envelope == nil {
		return nil, errors.New("envelope is required")
	}

	conn, err := o.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer o.releaseConn(conn)

	ctx, cancel := reqContext.WithTimeout(ctx, o.responseTimeout)
	defer cancel()

	broadcastClient, err := ab.NewAtomicBroadcastClient(conn).Broadcast(ctx)
	if err != nil {
		return nil, errors.Wrap(fromGRPCError(err), "NewAtomicBroadcastClient failed")
	}

	err = broadcastClient.Send(&common.Envelope{
		Payload:   envelope.Payload,
		Signature: envelope.Signature,
	})
	if err != nil {
		return nil, errors.Wrap(fromGRPCError(err), "failed to send envelope to orderer")
	}

	response, err := broadcastClient.Recv()
	var errs multi.Errors
	if err != nil {
		errs = append(errs, errors.Wrap(fromGRPCError(err), "broadcast recv failed"))
	}
	if closeErr := broadcastClient.CloseSend(); closeErr != nil {
		o.logger.Debugf("unable to close broadcast client [%s]", closeErr)
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	o.logger.Debugf("broadcast to [%s] returned status [%s] info [%s]", o.url, response.Status, response.Info)
	return &fab.BroadcastResponse{
		Status: response.Status.String(),
		Info:   response.Info,
	}, nil
}

// SendDeliver sends a deliver request to the ordering service and returns the
// first block delivered for the seek envelope.
func (o *Orderer) SendDeliver(ctx reqContext.Context, envelope *fab.SignedEnvelope) (*common.Block, error) {
	if envelope == nil {
		return nil, errors.New("envelope is required")
	}

	conn, err := o.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer o.releaseConn(conn)

	ctx, cancel := reqContext.WithTimeout(ctx, o.responseTimeout)
	defer cancel()

	deliverClient, err := ab.NewAtomicBroadcastClient(conn).Deliver(ctx)
	if err != nil {
		return nil, errors.Wrap(fromGRPCError(err), "deliver failed")
	}

	o.logger.Debug("Requesting blocks from ordering service")
	err = deliverClient.Send(&common.Envelope{
		Payload:   envelope.Payload,
		Signature: envelope.Signature,
	})
	if err != nil {
		return nil, errors.Wrap(fromGRPCError(err), "failed to send block request to orderer")
	}
	if err = deliverClient.CloseSend(); err != nil {
		o.logger.Debugf("unable to close deliver client [%s]", err)
	}

	return o.blockStream(deliverClient)
}

func (o *Orderer) blockStream(deliverClient ab.AtomicBroadcast_DeliverClient) (*common.Block, error) {
	var block *common.Block
	for {
		response, err := deliverClient.Recv()
		if err == io.EOF {
			if block == nil {
				return nil, errors.New("deliver stream closed without a block")
			}
			return block, nil
		}
		if err != nil {
			return nil, errors.Wrap(fromGRPCError(err), "recv from ordering service failed")
		}

		switch t := response.Type.(type) {
		case *ab.DeliverResponse_Status:
			o.logger.Debugf("Received deliver response status from ordering service: %s", t.Status)
			if t.Status != common.Status_SUCCESS {
				return nil, status.New(status.OrdererServerStatus, int32(t.Status), "error status from ordering service", []interface{}{})
			}
			if block == nil {
				return nil, errors.New("deliver completed without a block")
			}
			return block, nil
		case *ab.DeliverResponse_Block:
			o.logger.Debug("Received block from ordering service")
			if block == nil {
				block = t.Block
			}
		default:
			o.logger.Infof("unknown response type from ordering service %T", t)
		}
	}
}

// Ping reports whether a connection to the orderer can be established.
// An orderer that cannot be reached within the connection timeout is an
// error: callers must not treat it as merely absent.
func (o *Orderer) Ping(ctx reqContext.Context) (bool, error) {
	conn, err := o.connector.DialContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, errors.Wrapf(ctx.Err(), "ping of orderer [%s] aborted", o.url)
		}
		o.logger.Debugf("orderer [%s] is not reachable: %s", o.url, err)
		return false, status.New(status.OrdererClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), []interface{}{o.url})
	}
	o.releaseConn(conn)
	return true, nil
}

func fromGRPCError(err error) error {
	if rpcStatus, ok := grpcstatus.FromError(err); ok {
		return status.NewFromGRPCStatus(rpcStatus)
	}
	return err
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resmgmt

import (
	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/retry"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/fabsetup/fabric-setup-go/pkg/core/metrics"
)

// requestOptions contains options for operations performed by Client
type requestOptions struct {
	Retry      *retry.Opts
	Orderer    fab.Orderer
	CommitWait bool
}

// RequestOption func for each Opts argument
type RequestOption func(opts *requestOptions) error

// WithRetry sets the retry policy of the request. retry.NoRetry disables retrying.
func WithRetry(opts retry.Opts) RequestOption {
	return func(o *requestOptions) error {
		o.Retry = &opts
		return nil
	}
}

// WithOrderer allows an orderer to be specified for the request.
func WithOrderer(orderer fab.Orderer) RequestOption {
	return func(o *requestOptions) error {
		o.Orderer = orderer
		return nil
	}
}

// WithCommitWait makes UpdateAnchorPeers wait until the orderer delivers the
// block committing the update.
func WithCommitWait() RequestOption {
	return func(o *requestOptions) error {
		o.CommitWait = true
		return nil
	}
}

// ClientOption describes a functional parameter for the New constructor
type ClientOption func(*Client) error

// WithDefaultOrderer sets the orderer used when a request names none
func WithDefaultOrderer(orderer fab.Orderer) ClientOption {
	return func(rc *Client) error {
		rc.orderer = orderer
		return nil
	}
}

// WithDefaultRetry sets the retry policy used when a request sets none
func WithDefaultRetry(opts retry.Opts) ClientOption {
	return func(rc *Client) error {
		rc.retry = opts
		return nil
	}
}

// WithLoggerProvider sets the logger provider
func WithLoggerProvider(provider api.LoggerProvider) ClientOption {
	return func(rc *Client) error {
		rc.logProvider = provider
		return nil
	}
}

// WithMetrics records attempts, retries and outcomes in m
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(rc *Client) error {
		rc.metrics = m
		return nil
	}
}

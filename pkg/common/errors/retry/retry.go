/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package retry provides the fixed-interval retransmission used to drive
// channel setup operations to completion.
// An attempt is retried when its error carries a status whose group and code
// are listed in the RetryableCodes of the options. Every other error ends the
// loop immediately.
// They can be used in conjunction with the WithRetry setting offered by
// https://godoc.org/github.com/fabsetup/fabric-setup-go/pkg/client/resmgmt#WithRetry
package retry

import (
	reqContext "context"
	"time"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
)

// Opts defines the retry parameters
type Opts struct {
	// Interval the fixed wait between two attempts. Zero disables retrying.
	Interval time.Duration
	// Attempts the maximum number of retries. Zero means unbounded, in which
	// case only the request context ends the loop.
	Attempts int
	// RetryableCodes defines the status codes, mapped by group, that warrant
	// a retry. This will default to retry.DefaultRetryableCodes.
	RetryableCodes map[status.Group][]status.Code
}

// Enabled returns true if the options allow retrying at all
func (o Opts) Enabled() bool {
	return o.Interval > 0
}

// Handler retry handler interface decides whether a retry is required for the given
// error. The returned error is non-nil when the wait was interrupted by the context.
type Handler interface {
	Required(ctx reqContext.Context, err error) (bool, error)
}

// impl retry Handler implementation
type impl struct {
	opts    Opts
	retries int
}

// New retry Handler with the given opts
func New(opts Opts) Handler {
	if len(opts.RetryableCodes) == 0 {
		opts.RetryableCodes = DefaultRetryableCodes
	}
	return &impl{opts: opts}
}

// Required determines if retry is required for the given error.
// The fixed wait is performed behind this interface.
func (i *impl) Required(ctx reqContext.Context, err error) (bool, error) {
	if !i.opts.Enabled() {
		return false, nil
	}
	if i.opts.Attempts > 0 && i.retries >= i.opts.Attempts {
		return false, nil
	}

	s, ok := status.FromError(err)
	if !ok || !i.isRetryable(s.Group, s.Code) {
		return false, nil
	}

	timer := time.NewTimer(i.opts.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
	}

	i.retries++
	return true, nil
}

// isRetryable determines if the given status is configured to be retryable
func (i *impl) isRetryable(g status.Group, c int32) bool {
	for _, code := range i.opts.RetryableCodes[g] {
		if status.Code(c) == code {
			return true
		}
	}
	return false
}

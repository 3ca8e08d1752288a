/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"time"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
)

const (
	// DefaultInterval default wait between attempts
	DefaultInterval = 1000 * time.Millisecond
	// DefaultAttempts zero, retry until success, a fatal error or cancellation
	DefaultAttempts = 0
)

// DefaultRetryableCodes these are the error codes, grouped by source of error,
// that are considered to be transient error conditions by default
var DefaultRetryableCodes = map[status.Group][]status.Code{
	status.OrdererClientStatus: {
		status.ConsenterNotStarted,
	},
	status.EndorserClientStatus: {
		status.PeerNotReady,
	},
}

// DefaultOpts default retry options
var DefaultOpts = Opts{
	Interval:       DefaultInterval,
	Attempts:       DefaultAttempts,
	RetryableCodes: DefaultRetryableCodes,
}

// NoRetry disables looping: a transient failure is returned after the first attempt
var NoRetry = Opts{
	RetryableCodes: DefaultRetryableCodes,
}

// TestRetryableCodes are used by tests to determine error situations that can be retried.
var TestRetryableCodes = map[status.Group][]status.Code{
	status.TestStatus: {
		status.GenericTransient,
	},
	status.OrdererClientStatus: {
		status.ConsenterNotStarted,
	},
	status.EndorserClientStatus: {
		status.PeerNotReady,
	},
}

// TestRetryOpts are used by tests to determine retry parameters.
var TestRetryOpts = Opts{
	Interval:       time.Millisecond,
	RetryableCodes: TestRetryableCodes,
}

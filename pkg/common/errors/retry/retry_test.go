/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	reqContext "context"
	"fmt"
	"testing"
	"time"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-protos-go/common"
	"github.com/stretchr/testify/assert"
)

func TestRetryRequired(t *testing.T) {
	attempts := 3
	transientErr := status.New(status.OrdererClientStatus,
		status.ConsenterNotStarted.ToInt32(), "", nil)
	nonTransientErr := status.New(status.OrdererServerStatus,
		int32(common.Status_BAD_REQUEST), "", nil)
	unknownErr := fmt.Errorf("Unknown")

	ctx := reqContext.Background()
	r := New(Opts{
		Attempts: attempts,
		Interval: time.Millisecond,
	})
	for i := 1; i <= attempts; i++ {
		required, err := r.Required(ctx, transientErr)
		assert.NoError(t, err)
		assert.True(t, required, "Expected retry to be required on transient error")
	}
	required, _ := r.Required(ctx, transientErr)
	assert.False(t, required, "Expected retry to not be required after exhausting attempts")

	r = New(Opts{Interval: time.Millisecond})
	required, _ = r.Required(ctx, nonTransientErr)
	assert.False(t, required, "Expected retry to not be required on non-transient error")
	required, _ = r.Required(ctx, unknownErr)
	assert.False(t, required, "Expected retry to not be required on unknown error")
}

func TestUnboundedAttempts(t *testing.T) {
	transientErr := status.New(status.EndorserClientStatus, status.PeerNotReady.ToInt32(), "", nil)
	r := New(Opts{Interval: time.Microsecond})
	for i := 0; i < 50; i++ {
		required, err := r.Required(reqContext.Background(), transientErr)
		assert.NoError(t, err)
		assert.True(t, required)
	}
}

func TestNoRetry(t *testing.T) {
	transientErr := status.New(status.EndorserClientStatus, status.PeerNotReady.ToInt32(), "", nil)
	r := New(NoRetry)
	required, err := r.Required(reqContext.Background(), transientErr)
	assert.NoError(t, err)
	assert.False(t, required)
	assert.False(t, NoRetry.Enabled())
	assert.True(t, DefaultOpts.Enabled())
	assert.Equal(t, time.Second, DefaultOpts.Interval)
}

func TestRequiredCancelled(t *testing.T) {
	transientErr := status.New(status.OrdererClientStatus, status.ConsenterNotStarted.ToInt32(), "", nil)
	r := New(Opts{Interval: time.Hour})

	ctx, cancel := reqContext.WithCancel(reqContext.Background())
	cancel()

	required, err := r.Required(ctx, transientErr)
	assert.False(t, required)
	assert.Equal(t, reqContext.Canceled, err)
}

func TestFixedInterval(t *testing.T) {
	transientErr := status.New(status.TestStatus, status.GenericTransient.ToInt32(), "", nil)
	r := New(Opts{Interval: 20 * time.Millisecond, RetryableCodes: TestRetryableCodes})

	start := time.Now()
	for i := 0; i < 3; i++ {
		required, err := r.Required(reqContext.Background(), transientErr)
		assert.NoError(t, err)
		assert.True(t, required)
	}
	assert.True(t, time.Since(start) >= 60*time.Millisecond, "expected a fixed wait before each retry")
}

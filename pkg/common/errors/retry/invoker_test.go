/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	reqContext "context"
	"testing"
	"time"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/multi"
	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestInvokeSuccess(t *testing.T) {
	r := New(TestRetryOpts)

	attempt := 0
	expectedResp := "invoked"
	invoker := NewInvoker(r)
	resp, err := invoker.Invoke(reqContext.Background(),
		func(reqContext.Context) (interface{}, error) {
			attempt++
			if attempt == 1 {
				return nil, status.New(status.OrdererClientStatus, status.ConsenterNotStarted.ToInt32(), "", nil)
			}
			return expectedResp, nil
		},
	)

	assert.NoError(t, err, "Not expecting error")
	assert.Equal(t, expectedResp, resp)
	assert.Equal(t, 2, attempt)
}

func TestInvokeError(t *testing.T) {
	r := New(TestRetryOpts)

	attempt := 0
	expectedResp := "invoked"
	firstErr := status.New(status.EndorserClientStatus, status.PeerNotReady.ToInt32(), "", nil)
	exepectedErr := status.New(status.EndorserServerStatus, int32(500), "", nil)
	invoker := NewInvoker(r)
	resp, err := invoker.Invoke(reqContext.Background(),
		func(reqContext.Context) (interface{}, error) {
			attempt++
			if attempt == 1 {
				return nil, firstErr
			}
			if attempt == 2 {
				return nil, exepectedErr
			}
			return expectedResp, nil
		},
	)

	assert.EqualError(t, err, exepectedErr.Error())
	assert.Nil(t, resp)
	assert.Equal(t, 2, attempt)
}

func TestInvokeWithBeforeRetry(t *testing.T) {
	r := New(TestRetryOpts)

	beforeRetryHandlerCalled := 0
	attempt := 0
	expectedResp := "invoked"
	invoker := NewInvoker(r, WithBeforeRetry(
		func(err error) {
			beforeRetryHandlerCalled++
		},
	))
	resp, err := invoker.Invoke(reqContext.Background(),
		func(reqContext.Context) (interface{}, error) {
			attempt++
			if attempt < 3 {
				return nil, status.New(status.TestStatus, status.GenericTransient.ToInt32(), "", nil)
			}
			return expectedResp, nil
		},
	)

	assert.NoError(t, err, "Not expecting error")
	assert.Equal(t, expectedResp, resp)
	assert.Equal(t, 3, attempt)
	assert.Equal(t, 2, beforeRetryHandlerCalled)
}

func TestInvokeMultiError(t *testing.T) {
	r := New(TestRetryOpts)

	attempt := 0
	invoker := NewInvoker(r)
	_, err := invoker.Invoke(reqContext.Background(),
		func(reqContext.Context) (interface{}, error) {
			attempt++
			if attempt == 1 {
				return nil, multi.New(errors.New("fatal"), status.New(status.TestStatus, status.GenericTransient.ToInt32(), "", nil))
			}
			return "ok", nil
		},
	)

	assert.NoError(t, err)
	assert.Equal(t, 2, attempt)
}

func TestInvokeCancelled(t *testing.T) {
	r := New(Opts{Interval: time.Hour})

	ctx, cancel := reqContext.WithTimeout(reqContext.Background(), 10*time.Millisecond)
	defer cancel()

	invoker := NewInvoker(r)
	_, err := invoker.Invoke(ctx,
		func(reqContext.Context) (interface{}, error) {
			return nil, status.New(status.OrdererClientStatus, status.ConsenterNotStarted.ToInt32(), "not started", nil)
		},
	)

	assert.Error(t, err)
	assert.Equal(t, reqContext.DeadlineExceeded, errors.Cause(err))
	assert.Contains(t, err.Error(), "not started")
}

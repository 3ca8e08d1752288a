/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	reqContext "context"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/multi"
	"github.com/fabsetup/fabric-setup-go/pkg/common/logging"
	"github.com/pkg/errors"
)

// Invocation is the function to be invoked.
type Invocation func(ctx reqContext.Context) (interface{}, error)

// BeforeRetryHandler is a function that's invoked before
// a retry attempt.
type BeforeRetryHandler func(error)

// RetryableInvoker manages invocations that could return
// errors and retries the invocation on transient errors.
type RetryableInvoker struct {
	handler     Handler
	beforeRetry BeforeRetryHandler
	logger      *logging.Logger
}

// InvokerOpt is an invoker option
type InvokerOpt func(invoker *RetryableInvoker)

// WithBeforeRetry specifies a function to call before a retry attempt
func WithBeforeRetry(beforeRetry BeforeRetryHandler) InvokerOpt {
	return func(invoker *RetryableInvoker) {
		invoker.beforeRetry = beforeRetry
	}
}

// WithLogger specifies the logger used to trace attempts
func WithLogger(logger *logging.Logger) InvokerOpt {
	return func(invoker *RetryableInvoker) {
		invoker.logger = logger
	}
}

// NewInvoker creates a new RetryableInvoker
func NewInvoker(handler Handler, opts ...InvokerOpt) *RetryableInvoker {
	invoker := &RetryableInvoker{
		handler: handler,
	}
	for _, opt := range opts {
		opt(invoker)
	}
	if invoker.logger == nil {
		invoker.logger = logging.NewLogger("fabsetup/retry", nil)
	}
	return invoker
}

// Invoke invokes the given function and performs retries according
// to the retry options. Attempts run strictly one after another.
func (ri *RetryableInvoker) Invoke(ctx reqContext.Context, invocation Invocation) (interface{}, error) {
	attemptNum := 0
	var lastErr error

	for {
		attemptNum++
		if attemptNum > 1 {
			ri.logger.Debugf("Retry attempt #%d on error [%s]", attemptNum, lastErr)
		}

		retval, err := invocation(ctx)
		if err == nil {
			if attemptNum > 1 {
				ri.logger.Debugf("Success on attempt #%d after error [%s]", attemptNum, lastErr)
			}
			return retval, nil
		}

		ri.logger.Debugf("Failed with err [%s] on attempt #%d. Checking if retry is warranted...", err, attemptNum)
		retry, ctxErr := ri.resolveRetry(ctx, err)
		if ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "retry aborted after %d attempt(s), last error [%s]", attemptNum, err)
		}
		if !retry {
			ri.logger.Debugf("... retry for err [%s] is NOT warranted after %d attempt(s).", err, attemptNum)
			return retval, err
		}
		ri.logger.Debugf("... retry for err [%s] is warranted", err)
		lastErr = err
	}
}

func (ri *RetryableInvoker) resolveRetry(ctx reqContext.Context, err error) (bool, error) {
	errs, ok := err.(multi.Errors)
	if !ok {
		errs = append(errs, err)
	}
	for _, e := range errs {
		required, ctxErr := ri.handler.Required(ctx, e)
		if ctxErr != nil {
			return false, ctxErr
		}
		if required {
			if ri.beforeRetry != nil {
				ri.beforeRetry(err)
			}
			return true, nil
		}
	}
	return false, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resmgmt

import (
	reqContext "context"
	"strings"

	"github.com/hyperledger/fabric-protos-go/common"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
)

// Outcome is the result of a setup operation
type Outcome int

const (
	// Success the action took effect
	Success Outcome = iota
	// AlreadyDone the action had taken effect before; treated as success
	AlreadyDone
	// TransientFailure the coordinator was not ready; retry was disabled, exhausted or cancelled
	TransientFailure
	// FatalFailure the action failed and must not be retried
	FatalFailure
)

var outcomeNames = map[Outcome]string{
	Success:          "Success",
	AlreadyDone:      "AlreadyDone",
	TransientFailure: "TransientFailure",
	FatalFailure:     "FatalFailure",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "Unknown"
}

// MarshalYAML renders the outcome by name
func (o Outcome) MarshalYAML() (interface{}, error) {
	return o.String(), nil
}

// Completed reports whether the action has taken effect
func (o Outcome) Completed() bool {
	return o == Success || o == AlreadyDone
}

const (
	// consenterNotStarted is the info an orderer returns with SERVICE_UNAVAILABLE
	// while the consenter of a just created channel is starting
	consenterNotStarted = "will not enqueue, consenter for this channel hasn't started yet"

	ledgerAlreadyExists = "LedgerID already exists"
)

// joinTransientSymptoms mark a peer that cannot join yet, typically because
// the channel is still being created on the orderer
var joinTransientSymptoms = []string{"NOT_FOUND", "UNAVAILABLE", "Stream removed"}

// broadcastError converts a non-success broadcast response into an error
// rendering the orderer's status and info
func broadcastError(resp *fab.BroadcastResponse) *status.Status {
	code, ok := common.Status_value[resp.Status]
	if !ok {
		code = int32(common.Status_UNKNOWN)
	}
	return status.New(status.OrdererServerStatus, code, resp.Info, []interface{}{resp.Status, resp.Info})
}

// classifyBroadcast returns nil on SUCCESS. A consenter that has not started
// yet is transient when allowTransient; every other status is fatal.
func classifyBroadcast(resp *fab.BroadcastResponse, allowTransient bool) error {
	if resp == nil {
		return errors.New("orderer returned no broadcast response")
	}
	if resp.Status == fab.BroadcastSuccess {
		return nil
	}
	err := broadcastError(resp)
	if allowTransient && resp.Status == fab.BroadcastServiceUnavailable && resp.Info == consenterNotStarted {
		return status.Wrap(err, status.OrdererClientStatus, status.ConsenterNotStarted)
	}
	return err
}

// joinSymptom returns the message a join failure is classified by: the gRPC
// code name and description for transport failures, the peer's message for
// error responses, the error text otherwise.
func joinSymptom(err error) string {
	if s, ok := status.FromError(err); ok {
		switch s.Group {
		case status.GRPCTransportStatus:
			return status.GRPCCodeName(codes.Code(s.Code)) + ": " + s.Message
		case status.EndorserServerStatus:
			return s.Message
		}
	}
	return err.Error()
}

func isJoinTransient(symptom string) bool {
	for _, s := range joinTransientSymptoms {
		if strings.Contains(symptom, s) {
			return true
		}
	}
	return false
}

// transientCause returns the original error behind a transient status
func transientCause(err error) (error, bool) {
	s, ok := err.(*status.Status)
	if !ok || s.Unwrap() == nil {
		return nil, false
	}
	switch {
	case s.Group == status.OrdererClientStatus && status.Code(s.Code) == status.ConsenterNotStarted,
		s.Group == status.EndorserClientStatus && status.Code(s.Code) == status.PeerNotReady:
		return s.Unwrap(), true
	}
	return nil, false
}

// resolveOutcome maps the error ending a retry loop to an outcome and the
// error handed to the caller. An attempt cut short by the caller's context is
// transient whether the context error or the transport's rendering of it
// surfaces.
func resolveOutcome(ctx reqContext.Context, resp *Response, err error) error {
	if err == nil {
		if resp.Outcome != AlreadyDone {
			resp.Outcome = Success
		}
		return nil
	}
	if cause, ok := transientCause(err); ok {
		resp.Outcome = TransientFailure
		return cause
	}
	if c := errors.Cause(err); c == reqContext.Canceled || c == reqContext.DeadlineExceeded {
		resp.Outcome = TransientFailure
		return err
	}
	if ctx.Err() != nil && isCancelledTransport(err) {
		resp.Outcome = TransientFailure
		return err
	}
	resp.Outcome = FatalFailure
	return err
}

// isCancelledTransport reports whether err is a gRPC call ended by its context
func isCancelledTransport(err error) bool {
	s, ok := status.FromError(err)
	if !ok || s.Group != status.GRPCTransportStatus {
		return false
	}
	code := status.ToGRPCStatusCode(s.Code)
	return code == codes.Canceled || code == codes.DeadlineExceeded
}

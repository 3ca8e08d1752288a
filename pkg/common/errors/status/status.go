/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package status defines metadata for errors returned by channel setup
// operations. This information is used to classify a failed attempt as
// transient (retried) or fatal (returned to the caller).
// Status codes are divided by group, where each group represents a particular
// component and the codes correspond to those returned by the component.
package status

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/multi"
	grpcstatus "google.golang.org/grpc/status"
)

// Status provides additional information about an unsuccessful operation.
// Essentially, this object contains metadata about an error returned by an
// orderer, a peer or the client itself.
type Status struct {
	// Group status group
	Group Group
	// Code status code
	Code int32
	// Message status message
	Message string
	// Details any additional status details
	Details []interface{}

	cause error
}

// Group of status to help users infer status codes from various components
type Group int32

const (
	// UnknownStatus unknown status group
	UnknownStatus Group = iota

	// GRPCTransportStatus is the status associated with requests made over
	// gRPC connections
	GRPCTransportStatus

	// OrdererServerStatus status returned by the ordering service
	OrdererServerStatus
	// EndorserServerStatus status returned by a peer
	EndorserServerStatus

	// OrdererClientStatus status inferred by the client from orderer responses
	OrdererClientStatus
	// EndorserClientStatus status inferred by the client from peer responses
	EndorserClientStatus
	// ClientStatus is a generic client status
	ClientStatus

	// TestStatus is used by tests to create retry codes.
	TestStatus
)

// GroupName maps the groups in this packages to human-readable strings
var GroupName = map[int32]string{
	0: "Unknown",
	1: "gRPC Transport Status",
	2: "Orderer Server Status",
	3: "Endorser Server Status",
	4: "Orderer Client Status",
	5: "Endorser Client Status",
	6: "Client Status",
	7: "Test status",
}

func (g Group) String() string {
	if s, ok := GroupName[int32(g)]; ok {
		return s
	}
	return UnknownStatus.String()
}

// FromError returns a Status representing err if available,
// otherwise it returns nil, false.
func FromError(err error) (s *Status, ok bool) {
	if err == nil {
		return &Status{Code: int32(OK)}, true
	}
	if s, ok := err.(*Status); ok {
		return s, true
	}
	unwrappedErr := errors.Cause(err)
	if s, ok := unwrappedErr.(*Status); ok {
		return s, true
	}
	if m, ok := unwrappedErr.(multi.Errors); ok {
		// Return all of the errors in the details
		var errors []interface{}
		for _, err := range m {
			errors = append(errors, err)
		}
		return New(ClientStatus, MultipleErrors.ToInt32(), m.Error(), errors), true
	}

	return nil, false
}

type jsonStatus struct {
	Group   string `json:"group"`
	Status  int32  `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error renders the status as a JSON object holding the raw status and message
func (s *Status) Error() string {
	b, err := json.Marshal(jsonStatus{Group: s.Group.String(), Status: s.Code, Code: s.codeString(), Message: s.Message})
	if err != nil {
		return fmt.Sprintf("%s Code: (%d) %s. Description: %s", s.Group.String(), s.Code, s.codeString(), s.Message)
	}
	return string(b)
}

// Unwrap returns the error this status was derived from, if any
func (s *Status) Unwrap() error {
	return s.cause
}

func (s *Status) codeString() string {
	switch s.Group {
	case GRPCTransportStatus:
		return ToGRPCStatusCode(s.Code).String()
	case EndorserServerStatus, OrdererServerStatus:
		return ToFabricCommonStatusCode(s.Code).String()
	case EndorserClientStatus, OrdererClientStatus, ClientStatus, TestStatus:
		return ToSDKStatusCode(s.Code).String()
	default:
		return Unknown.String()
	}
}

// New returns a Status with the given parameters
func New(group Group, code int32, msg string, details []interface{}) *Status {
	return &Status{Group: group, Code: code, Message: msg, Details: details}
}

// Wrap returns a Status classifying cause. The message is the cause's message
// and Unwrap returns cause unchanged.
func Wrap(cause error, group Group, code Code) *Status {
	return &Status{Group: group, Code: code.ToInt32(), Message: cause.Error(), cause: cause}
}

// NewFromProposalResponse creates a status created from the given ProposalResponse
func NewFromProposalResponse(res *pb.ProposalResponse, endorser string) *Status {
	if res == nil || res.Response == nil {
		return nil
	}
	details := []interface{}{endorser, res.Response.Payload}

	return New(EndorserServerStatus, res.Response.Status, res.Response.Message, details)
}

// NewFromGRPCStatus new Status from gRPC status response
func NewFromGRPCStatus(s *grpcstatus.Status) *Status {
	if s == nil {
		return nil
	}
	details := make([]interface{}, len(s.Proto().Details))
	for i, detail := range s.Proto().Details {
		details[i] = detail
	}

	return &Status{Group: GRPCTransportStatus, Code: s.Proto().Code,
		Message: s.Message(), Details: details}
}

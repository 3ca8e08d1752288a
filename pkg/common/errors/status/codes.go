/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"strconv"
	"strings"

	"github.com/hyperledger/fabric-protos-go/common"
	grpcCodes "google.golang.org/grpc/codes"
)

// Code represents a status code
type Code uint32

const (
	// OK is returned on success.
	OK Code = 0

	// Unknown represents status codes that are uncategorized or unknown
	Unknown Code = 1

	// ConnectionFailed is returned when a network connection attempt fails
	ConnectionFailed Code = 2

	// Timeout operation timed out
	Timeout Code = 5

	// MultipleErrors multiple errors occurred
	MultipleErrors Code = 7

	// GenericTransient is generally used by tests to indicate that a retry is possible
	GenericTransient Code = 12

	// InvalidChannelName the channel name does not match the naming pattern
	InvalidChannelName Code = 30

	// MissingParameter a required request field was not provided
	MissingParameter Code = 31

	// ConsenterNotStarted the orderer will not enqueue for a channel whose consenter hasn't started yet
	ConsenterNotStarted Code = 32

	// PeerNotReady the peer (or the orderer it fetches from) is not reachable yet
	PeerNotReady Code = 33
)

// CodeName maps the codes in this packages to human-readable strings
var CodeName = map[int32]string{
	0:  "OK",
	1:  "UNKNOWN",
	2:  "CONNECTION_FAILED",
	5:  "TIMEOUT",
	7:  "MULTIPLE_ERRORS",
	12: "GENERIC_TRANSIENT",
	30: "INVALID_CHANNEL_NAME",
	31: "MISSING_PARAMETER",
	32: "CONSENTER_NOT_STARTED",
	33: "PEER_NOT_READY",
}

// ToInt32 cast to int32
func (c Code) ToInt32() int32 {
	return int32(c)
}

// String representation of the code
func (c Code) String() string {
	if s, ok := CodeName[c.ToInt32()]; ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// ToSDKStatusCode cast to client status code
func ToSDKStatusCode(c int32) Code {
	return Code(c)
}

// ToGRPCStatusCode cast to gRPC status code
func ToGRPCStatusCode(c int32) grpcCodes.Code {
	return grpcCodes.Code(c)
}

// ToFabricCommonStatusCode cast to common.Status
func ToFabricCommonStatusCode(c int32) common.Status {
	return common.Status(c)
}

// grpcCodeNames are the canonical wire names of gRPC codes (NOT_FOUND, UNAVAILABLE, ...)
var grpcCodeNames = map[grpcCodes.Code]string{
	grpcCodes.OK:                 "OK",
	grpcCodes.Canceled:           "CANCELLED",
	grpcCodes.Unknown:            "UNKNOWN",
	grpcCodes.InvalidArgument:    "INVALID_ARGUMENT",
	grpcCodes.DeadlineExceeded:   "DEADLINE_EXCEEDED",
	grpcCodes.NotFound:           "NOT_FOUND",
	grpcCodes.AlreadyExists:      "ALREADY_EXISTS",
	grpcCodes.PermissionDenied:   "PERMISSION_DENIED",
	grpcCodes.ResourceExhausted:  "RESOURCE_EXHAUSTED",
	grpcCodes.FailedPrecondition: "FAILED_PRECONDITION",
	grpcCodes.Aborted:            "ABORTED",
	grpcCodes.OutOfRange:         "OUT_OF_RANGE",
	grpcCodes.Unimplemented:      "UNIMPLEMENTED",
	grpcCodes.Internal:           "INTERNAL",
	grpcCodes.Unavailable:        "UNAVAILABLE",
	grpcCodes.DataLoss:           "DATA_LOSS",
	grpcCodes.Unauthenticated:    "UNAUTHENTICATED",
}

// GRPCCodeName returns the canonical wire name of a gRPC code, e.g. UNAVAILABLE
func GRPCCodeName(c grpcCodes.Code) string {
	if s, ok := grpcCodeNames[c]; ok {
		return s
	}
	return strings.ToUpper(c.String())
}

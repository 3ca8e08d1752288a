/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/multi"
	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpccodes "google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

func TestStatusConstructors(t *testing.T) {
	s := New(EndorserClientStatus, ConnectionFailed.ToInt32(), "test", nil)
	assert.NotNil(t, s, "Expected status to be constructed")
	assert.EqualValues(t, ConnectionFailed, ToSDKStatusCode(s.Code))
	assert.Equal(t, EndorserClientStatus, s.Group)
	assert.Equal(t, "test", s.Message, "Expected test message")

	s = NewFromGRPCStatus(nil)
	assert.Nil(t, s)
	s = NewFromGRPCStatus(grpcstatus.New(grpccodes.DeadlineExceeded, "test"))
	assert.NotNil(t, s, "Expected status to be constructed")
	assert.EqualValues(t, grpccodes.DeadlineExceeded, ToGRPCStatusCode(s.Code))
	assert.Equal(t, GRPCTransportStatus, s.Group)
	assert.Equal(t, "test", s.Message, "Expected test message")

	s = NewFromProposalResponse(nil, "")
	assert.Nil(t, s)
	s = NewFromProposalResponse(&pb.ProposalResponse{
		Response: &pb.Response{
			Status:  int32(common.Status_BAD_REQUEST),
			Message: "test",
		}}, "localhost")
	assert.NotNil(t, s, "Expected status to be constructed")
	assert.EqualValues(t, common.Status_BAD_REQUEST, ToFabricCommonStatusCode(s.Code))
	assert.Equal(t, EndorserServerStatus, s.Group)
	assert.Equal(t, "test", s.Message, "Expected test message")
	assert.Equal(t, "localhost", s.Details[0].(string))
}

func TestFromError(t *testing.T) {
	s := New(EndorserClientStatus, ConnectionFailed.ToInt32(), "test", nil)
	derivedStatus, ok := FromError(s)
	assert.True(t, ok)
	assert.Equal(t, s, derivedStatus)

	// Test unwrap
	s1 := errors.Wrap(s, "test")
	derivedStatus, ok = FromError(s1)
	assert.True(t, ok)
	assert.Equal(t, s, derivedStatus)

	s, ok = FromError(nil)
	assert.True(t, ok)
	assert.EqualValues(t, OK.ToInt32(), s.Code)

	_, ok = FromError(fmt.Errorf("Test"))
	assert.False(t, ok)

	errs := multi.Errors{}
	errs = append(errs, fmt.Errorf("Test"))
	s, ok = FromError(errs)
	assert.True(t, ok)
	assert.Equal(t, ClientStatus, s.Group)
	assert.EqualValues(t, MultipleErrors.ToInt32(), s.Code)
	assert.Equal(t, errs.Error(), s.Message)
}

func TestStatusToError(t *testing.T) {
	s := New(EndorserServerStatus, 500, "x", nil)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s.Error()), &payload))
	assert.EqualValues(t, 500, payload["status"])
	assert.Equal(t, "x", payload["message"])
	assert.Equal(t, "INTERNAL_SERVER_ERROR", payload["code"])
	assert.Equal(t, "Endorser Server Status", payload["group"])
}

func TestWrap(t *testing.T) {
	cause := errors.New("NOT_FOUND: foo")
	s := Wrap(cause, EndorserClientStatus, PeerNotReady)

	assert.Equal(t, cause.Error(), s.Message)
	assert.Equal(t, cause, s.Unwrap())
	assert.EqualValues(t, PeerNotReady, s.Code)

	derived, ok := FromError(errors.WithMessage(s, "join channel failed"))
	assert.True(t, ok)
	assert.Equal(t, s, derived)

	assert.Nil(t, New(ClientStatus, Unknown.ToInt32(), "", nil).Unwrap())
}

func TestStatuCodeConversion(t *testing.T) {
	c := ToFabricCommonStatusCode(int32(common.Status_FORBIDDEN))
	assert.EqualValues(t, c, common.Status_FORBIDDEN)

	s := OK.String()
	assert.Equal(t, CodeName[OK.ToInt32()], s)

	invalidCode25999 := Code(25999)
	assert.Equal(t, "25999", invalidCode25999.String())
}

func TestStatusCodeString(t *testing.T) {
	s := Status{Group: GRPCTransportStatus, Code: int32(grpccodes.Aborted)}
	assert.Equal(t, grpccodes.Aborted.String(), s.codeString())

	s = Status{Group: OrdererServerStatus, Code: int32(common.Status_SERVICE_UNAVAILABLE)}
	assert.Equal(t, "SERVICE_UNAVAILABLE", s.codeString())

	s = Status{Group: OrdererClientStatus, Code: int32(ConsenterNotStarted)}
	assert.Equal(t, "CONSENTER_NOT_STARTED", s.codeString())

	unknownCode45779 := 45779
	s = Status{Code: int32(unknownCode45779)}
	assert.Equal(t, Unknown.String(), s.codeString())
}

func TestStatusGroupString(t *testing.T) {
	unknownGroup77377 := Group(73777)
	assert.Equal(t, UnknownStatus.String(), unknownGroup77377.String())
}

func TestGRPCCodeName(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", GRPCCodeName(grpccodes.NotFound))
	assert.Equal(t, "UNAVAILABLE", GRPCCodeName(grpccodes.Unavailable))
	assert.Equal(t, "CANCELLED", GRPCCodeName(grpccodes.Canceled))
}

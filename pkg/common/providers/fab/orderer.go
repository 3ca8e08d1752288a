/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	reqContext "context"

	"github.com/hyperledger/fabric-protos-go/common"
)

// Orderer The Orderer class represents a peer in the target blockchain network to which
// HFC sends a block of transactions of endorsed proposals requiring ordering.
type Orderer interface {
	URL() string
	// SendBroadcast sends a signed envelope and returns the orderer's reply.
	// A non-nil error means the reply could not be obtained at all.
	SendBroadcast(ctx reqContext.Context, envelope *SignedEnvelope) (*BroadcastResponse, error)
	// SendDeliver sends a signed seek envelope and returns the first delivered block.
	SendDeliver(ctx reqContext.Context, envelope *SignedEnvelope) (*common.Block, error)
	// Ping probes liveness. An error means the probe itself failed.
	Ping(ctx reqContext.Context) (bool, error)
}

// A SignedEnvelope can can be sent to an orderer for broadcasting
type SignedEnvelope struct {
	Payload   []byte
	Signature []byte
}

// BroadcastResponse is the orderer's reply to a broadcast: a status name such
// as SUCCESS or SERVICE_UNAVAILABLE and a free-form info string.
type BroadcastResponse struct {
	Status string `json:"status"`
	Info   string `json:"info"`
}

// Broadcast statuses matched by the setup operations
const (
	BroadcastSuccess            = "SUCCESS"
	BroadcastServiceUnavailable = "SERVICE_UNAVAILABLE"
)

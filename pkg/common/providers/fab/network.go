/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"crypto/x509"
	"time"
)

// OrdererConfig defines an orderer configuration
type OrdererConfig struct {
	Name        string
	URL         string
	GRPCOptions map[string]interface{}
	TLSCACert   *x509.Certificate
}

// PeerConfig defines a peer configuration
type PeerConfig struct {
	Name        string
	URL         string
	GRPCOptions map[string]interface{}
	TLSCACert   *x509.Certificate
}

// TimeoutType enumerates the different types of outgoing connections
type TimeoutType int

const (
	// PeerConnection connection timeout
	PeerConnection TimeoutType = iota
	// PeerResponse peer response timeout
	PeerResponse
	// OrdererConnection orderer connection timeout
	OrdererConnection
	// OrdererResponse orderer response timeout
	OrdererResponse
)

// DefaultTimeouts are used when a timeout is not configured
var DefaultTimeouts = map[TimeoutType]time.Duration{
	PeerConnection:    10 * time.Second,
	PeerResponse:      3 * time.Minute,
	OrdererConnection: 15 * time.Second,
	OrdererResponse:   15 * time.Second,
}

// Timeouts maps timeout types to durations
type Timeouts map[TimeoutType]time.Duration

// TimeoutOrDefault returns the configured timeout or its default
func (t Timeouts) TimeoutOrDefault(tType TimeoutType) time.Duration {
	if timeout, ok := t[tType]; ok && timeout > 0 {
		return timeout
	}
	return DefaultTimeouts[tType]
}

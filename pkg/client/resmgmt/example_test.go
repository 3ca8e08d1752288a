/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resmgmt

import (
	"bytes"
	reqContext "context"
	"fmt"

	"github.com/hyperledger/fabric-protos-go/common"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/retry"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/test/mockfab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/test/mockmsp"
)

// exampleOrderer refuses the first broadcast as a just created channel's
// orderer would
type exampleOrderer struct {
	broadcasts int
}

func (o *exampleOrderer) URL() string { return "grpcs://orderer.example.com:7050" }

func (o *exampleOrderer) SendBroadcast(ctx reqContext.Context, envelope *fab.SignedEnvelope) (*fab.BroadcastResponse, error) {
	o.broadcasts++
	if o.broadcasts == 1 {
		return &fab.BroadcastResponse{Status: fab.BroadcastServiceUnavailable, Info: consenterNotStarted}, nil
	}
	return &fab.BroadcastResponse{Status: fab.BroadcastSuccess}, nil
}

func (o *exampleOrderer) SendDeliver(ctx reqContext.Context, envelope *fab.SignedEnvelope) (*common.Block, error) {
	return mockfab.GenesisBlock("mychannel"), nil
}

func (o *exampleOrderer) Ping(ctx reqContext.Context) (bool, error) { return true, nil }

func ExampleNew() {
	c, err := New(mockmsp.NewMockSigningIdentity("admin", "Org1MSP"), WithDefaultOrderer(&exampleOrderer{}))
	if err != nil {
		fmt.Println("failed to create client")
	}

	if c != nil {
		fmt.Println("resource management client created")
	}

	// Output: resource management client created
}

func ExampleClient_CreateChannel() {
	c, err := New(mockmsp.NewMockSigningIdentity("admin", "Org1MSP"),
		WithDefaultOrderer(&exampleOrderer{}), WithDefaultRetry(retry.TestRetryOpts))
	if err != nil {
		fmt.Println("failed to create client")
		return
	}

	tx := bytes.NewReader(mockfab.ChannelConfigTx("mychannel", []byte("config-update")))
	resp, err := c.CreateChannel(reqContext.Background(), CreateChannelRequest{ChannelID: "mychannel", ChannelConfig: tx})
	if err != nil {
		fmt.Printf("failed to create channel: %s\n", err)
		return
	}

	fmt.Printf("%s after %d attempts\n", resp.Outcome, resp.Attempts)

	// Output: Success after 2 attempts
}

func ExampleValidateChannelName() {
	valid, _ := ValidateChannelName("MyChannel", false)
	fmt.Println(valid)

	_, err := ValidateChannelName("mychannel", true)
	fmt.Println(err == nil)

	// Output:
	// false
	// true
}

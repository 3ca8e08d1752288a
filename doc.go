/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fabsetup drives the setup of a Hyperledger Fabric network to
// completion: channel creation, peer join and anchor peer updates, retried
// while the orderer or peers are not ready yet.
//
// Packages for end developer usage
//
// pkg/fabsdk: Builds the setup client from configuration: admin identity,
// orderer and peer endpoints, retry policy, logging and metrics.
//
// pkg/client/resmgmt: Creates channels, joins peers and updates anchor peers,
// reporting an Outcome for every action.
//
// cmd/fabsetup: Command line front end of pkg/client/resmgmt.
//
// Basic workflow
//
//      1) Instantiate a fabsdk instance using a configuration file.
//      2) Obtain the resource management client with ResourceMgmt.
//      3) Create the channel, then join every peer, then update anchor peers.
//         Transient failures are retried until the context is done.
//
package fabsetup

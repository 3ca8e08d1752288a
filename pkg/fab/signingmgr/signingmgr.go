/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signingmgr

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/asn1"
	"math/big"

	"github.com/pkg/errors"
)

// curveHalfOrders maps curves to their half orders, used to enforce low-S signatures
var curveHalfOrders = map[elliptic.Curve]*big.Int{
	elliptic.P224(): new(big.Int).Rsh(elliptic.P224().Params().N, 1),
	elliptic.P256(): new(big.Int).Rsh(elliptic.P256().Params().N, 1),
	elliptic.P384(): new(big.Int).Rsh(elliptic.P384().Params().N, 1),
	elliptic.P521(): new(big.Int).Rsh(elliptic.P521().Params().N, 1),
}

type ecdsaSignature struct {
	R, S *big.Int
}

// SigningManager is used for signing objects with private key
type SigningManager struct{}

// New Constructor for a signing manager.
func New() *SigningManager {
	return &SigningManager{}
}

// Sign will sign the SHA-256 digest of the given object using provided key.
// The signature is ASN.1 DER encoded with S normalized to the lower half of the curve order.
func (mgr *SigningManager) Sign(object []byte, key *ecdsa.PrivateKey) ([]byte, error) {

	if len(object) == 0 {
		return nil, errors.New("object (to sign) required")
	}

	if key == nil {
		return nil, errors.New("key (for signing) required")
	}

	digest := sha256.Sum256(object)
	r, s, err := ecdsa.Sign(rand.Reader, key, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "ecdsa signing failed")
	}

	s, err = toLowS(&key.PublicKey, s)
	if err != nil {
		return nil, err
	}

	return asn1.Marshal(ecdsaSignature{R: r, S: s})
}

// Verify checks an ASN.1 signature over the SHA-256 digest of object
func (mgr *SigningManager) Verify(object, signature []byte, key *ecdsa.PublicKey) (bool, error) {
	sig := ecdsaSignature{}
	if _, err := asn1.Unmarshal(signature, &sig); err != nil {
		return false, errors.Wrap(err, "failed unmarshalling signature")
	}
	digest := sha256.Sum256(object)
	return ecdsa.Verify(key, digest[:], sig.R, sig.S), nil
}

func toLowS(k *ecdsa.PublicKey, s *big.Int) (*big.Int, error) {
	halfOrder, ok := curveHalfOrders[k.Curve]
	if !ok {
		return nil, errors.Errorf("curve not recognized [%s]", k.Curve.Params().Name)
	}
	if s.Cmp(halfOrder) == 1 {
		s.Sub(k.Params().N, s)
	}
	return s, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package msp loads the client's signing identity: an enrollment certificate
// and its ECDSA private key, both PEM encoded.
package msp

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"

	"github.com/golang/protobuf/proto"
	pb_msp "github.com/hyperledger/fabric-protos-go/msp"
	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/signingmgr"
)

// SigningIdentity is a file or memory backed signing identity
type SigningIdentity struct {
	id          string
	mspID       string
	cert        []byte
	key         *ecdsa.PrivateKey
	signingMgr  *signingmgr.SigningManager
	certificate *x509.Certificate
}

// NewSigningIdentity creates a signing identity from PEM encoded certificate and key
func NewSigningIdentity(mspID string, certPEM, keyPEM []byte) (*SigningIdentity, error) {
	if mspID == "" {
		return nil, errors.New("mspID is required")
	}

	certificate, err := parseCertificate(certPEM)
	if err != nil {
		return nil, errors.WithMessage(err, "enrollment certificate is invalid")
	}

	key, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, errors.WithMessage(err, "private key is invalid")
	}

	pub, ok := certificate.PublicKey.(*ecdsa.PublicKey)
	if !ok || pub.X.Cmp(key.PublicKey.X) != 0 || pub.Y.Cmp(key.PublicKey.Y) != 0 {
		return nil, errors.New("private key does not match enrollment certificate")
	}

	return &SigningIdentity{
		id:          certificate.Subject.CommonName,
		mspID:       mspID,
		cert:        certPEM,
		key:         key,
		signingMgr:  signingmgr.New(),
		certificate: certificate,
	}, nil
}

// NewSigningIdentityFromFiles creates a signing identity from PEM files
func NewSigningIdentityFromFiles(mspID, certPath, keyPath string) (*SigningIdentity, error) {
	certPEM, err := ioutil.ReadFile(certPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading enrollment certificate failed: %s", certPath)
	}
	keyPEM, err := ioutil.ReadFile(keyPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading private key failed: %s", keyPath)
	}
	return NewSigningIdentity(mspID, certPEM, keyPEM)
}

// Identifier returns the identifier of that identity
func (s *SigningIdentity) Identifier() *msp.IdentityIdentifier {
	return &msp.IdentityIdentifier{ID: s.id, MSPID: s.mspID}
}

// Serialize returns the msp.SerializedIdentity bytes used as transaction creator
func (s *SigningIdentity) Serialize() ([]byte, error) {
	serializedIdentity := &pb_msp.SerializedIdentity{
		Mspid:   s.mspID,
		IdBytes: s.cert,
	}
	identity, err := proto.Marshal(serializedIdentity)
	if err != nil {
		return nil, errors.Wrap(err, "marshal serializedIdentity failed")
	}
	return identity, nil
}

// EnrollmentCertificate returns the PEM encoded certificate
func (s *SigningIdentity) EnrollmentCertificate() []byte {
	return s.cert
}

// Sign the message
func (s *SigningIdentity) Sign(msg []byte) ([]byte, error) {
	return s.signingMgr.Sign(msg, s.key)
}

// Verify a signature over msg made by this identity
func (s *SigningIdentity) Verify(msg, sig []byte) (bool, error) {
	return s.signingMgr.Verify(msg, sig, &s.key.PublicKey)
}

func parseCertificate(certPEM []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return x509.ParseCertificate(block.Bytes)
}

func parsePrivateKey(keyPEM []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		ecKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("private key is not an ECDSA key")
		}
		return ecKey, nil
	}

	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed parsing EC private key")
	}
	return key, nil
}

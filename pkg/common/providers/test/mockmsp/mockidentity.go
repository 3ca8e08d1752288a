/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mockmsp

import (
	"github.com/golang/protobuf/proto"
	pb_msp "github.com/hyperledger/fabric-protos-go/msp"
	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
)

// MockSigningIdentity signs by echoing a fixed prefix and the message length
type MockSigningIdentity struct {
	ID      string
	MSPID   string
	Cert    []byte
	SignErr error
	Signed  int
}

// NewMockSigningIdentity returns a signing identity for tests
func NewMockSigningIdentity(id, mspID string) *MockSigningIdentity {
	return &MockSigningIdentity{ID: id, MSPID: mspID, Cert: []byte("-----BEGIN CERTIFICATE-----" + id)}
}

// Identifier returns the identifier of that identity
func (m *MockSigningIdentity) Identifier() *msp.IdentityIdentifier {
	return &msp.IdentityIdentifier{ID: m.ID, MSPID: m.MSPID}
}

// Serialize returns the serialized identity
func (m *MockSigningIdentity) Serialize() ([]byte, error) {
	return proto.Marshal(&pb_msp.SerializedIdentity{Mspid: m.MSPID, IdBytes: m.Cert})
}

// EnrollmentCertificate returns the certificate
func (m *MockSigningIdentity) EnrollmentCertificate() []byte {
	return m.Cert
}

// Sign returns a fake signature
func (m *MockSigningIdentity) Sign(msg []byte) ([]byte, error) {
	if m.SignErr != nil {
		return nil, errors.WithMessage(m.SignErr, "sign failed")
	}
	m.Signed++
	return append([]byte("signed:"+m.ID+":"), byte(len(msg))), nil
}

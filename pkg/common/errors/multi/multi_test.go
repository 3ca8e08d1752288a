/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package multi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	testErr := fmt.Errorf("test")
	var errs Errors

	assert.Equal(t, "", errs.Error())

	errs = append(errs, testErr)
	assert.Equal(t, testErr.Error(), errs.Error())

	errs = append(errs, testErr)
	assert.Equal(t, "Multiple errors occurred: - test - test", errs.Error())
}

func TestNew(t *testing.T) {
	assert.Nil(t, New())
	assert.Nil(t, New(nil, nil))

	single := fmt.Errorf("orderer0 unreachable")
	assert.Equal(t, single, New(nil, single))

	err := New(single, fmt.Errorf("orderer1 unreachable"))
	errs, ok := err.(Errors)
	assert.True(t, ok)
	assert.Len(t, errs, 2)
}

func TestAppend(t *testing.T) {
	testErr := fmt.Errorf("test")

	assert.Nil(t, Append(nil, nil))
	assert.Equal(t, testErr, Append(nil, testErr))
	assert.Equal(t, testErr, Append(testErr, nil))

	err := Append(testErr, testErr)
	errs, ok := err.(Errors)
	assert.True(t, ok)
	assert.Len(t, errs, 2)

	err = Append(errs, testErr)
	errs, ok = err.(Errors)
	assert.True(t, ok)
	assert.Len(t, errs, 3)

	// nested Errors are flattened
	err = Append(testErr, Errors{testErr, testErr})
	errs, ok = err.(Errors)
	assert.True(t, ok)
	assert.Len(t, errs, 3)
}

func TestToError(t *testing.T) {
	var errs Errors
	assert.Nil(t, errs.ToError())

	testErr := fmt.Errorf("test")
	errs = append(errs, testErr)
	assert.Equal(t, testErr, errs.ToError())
}

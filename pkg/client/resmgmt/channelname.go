/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resmgmt

import (
	"regexp"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
)

// ChannelNamePattern is the syntax a channel name must follow
const ChannelNamePattern = `^[a-z][a-z0-9.-]*$`

var channelNameRegexp = regexp.MustCompile(ChannelNamePattern)

// ValidateChannelName reports whether name is a valid channel name. When
// strict, an invalid name is returned as an InvalidChannelName error instead.
func ValidateChannelName(name string, strict bool) (bool, error) {
	if channelNameRegexp.MatchString(name) {
		return true, nil
	}
	if strict {
		return false, status.New(status.ClientStatus, status.InvalidChannelName.ToInt32(),
			"invalid channel name "+name+"; should match regx: "+ChannelNamePattern, nil)
	}
	return false, nil
}

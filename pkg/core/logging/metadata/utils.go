/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"strings"

	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/pkg/errors"
)

//Log level names in string
var levelNames = []string{
	"CRITICAL",
	"ERROR",
	"WARNING",
	"INFO",
	"DEBUG",
}

// ParseLevel returns the log level from a string representation.
// "warn" is accepted as an alias of WARNING.
func ParseLevel(level string) (api.Level, error) {
	if strings.EqualFold(level, "warn") {
		return api.WARNING, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(name, level) {
			return api.Level(i), nil
		}
	}
	return api.ERROR, errors.Errorf("logger: invalid log level [%s]", level)
}

//ParseString returns String repressentation of given log level
func ParseString(level api.Level) string {
	if level < api.CRITICAL || int(level) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[level]
}

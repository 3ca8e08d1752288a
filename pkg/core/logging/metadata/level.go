/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"sync"

	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
)

//ModuleLevels maintains log levels based on module
type ModuleLevels struct {
	mutex  sync.RWMutex
	levels map[string]api.Level
}

// GetLevel returns the log level for the given module.
// The "" module holds the default level; without one INFO is used.
func (l *ModuleLevels) GetLevel(module string) api.Level {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	level, exists := l.levels[module]
	if !exists {
		level, exists = l.levels[""]
		if !exists {
			level = api.INFO
		}
	}
	return level
}

// SetLevel sets the log level for the given module.
func (l *ModuleLevels) SetLevel(module string, level api.Level) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.levels == nil {
		l.levels = make(map[string]api.Level)
	}
	l.levels[module] = level
}

// IsEnabledFor will return true if logging is enabled for the given module.
func (l *ModuleLevels) IsEnabledFor(module string, level api.Level) bool {
	return level <= l.GetLevel(module)
}

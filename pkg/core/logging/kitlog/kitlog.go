/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package kitlog provides the default logger provider, writing logfmt lines
// through go-kit's leveled logger. Module levels are scoped to the provider
// instance, so two providers never share level settings.
package kitlog

import (
	"fmt"
	"io"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/metadata"
)

// Provider is the default logger implementation
type Provider struct {
	base   kitlog.Logger
	levels *metadata.ModuleLevels
}

// Option configures a Provider
type Option func(*Provider)

// WithLevel sets the log level of the given module. An empty module sets the default level.
func WithLevel(module string, lvl api.Level) Option {
	return func(p *Provider) {
		p.levels.SetLevel(module, lvl)
	}
}

// New returns a provider writing to w. A nil writer defaults to stderr.
func New(w io.Writer, opts ...Option) *Provider {
	if w == nil {
		w = os.Stderr
	}
	p := &Provider{
		base:   kitlog.With(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w)), "ts", kitlog.DefaultTimestampUTC),
		levels: &metadata.ModuleLevels{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetLevel sets the log level for the given module
func (p *Provider) SetLevel(module string, lvl api.Level) {
	p.levels.SetLevel(module, lvl)
}

// IsEnabledFor reports whether the module logs at the given level
func (p *Provider) IsEnabledFor(module string, lvl api.Level) bool {
	return p.levels.IsEnabledFor(module, lvl)
}

//GetLogger returns a logger for the module
func (p *Provider) GetLogger(module string) api.Logger {
	return &Log{
		base:     kitlog.With(p.base, "module", module),
		module:   module,
		provider: p,
	}
}

//Log is a module logger writing through go-kit
type Log struct {
	base     kitlog.Logger
	module   string
	provider *Provider
}

func (l *Log) log(lvl api.Level, msg string) {
	if !l.provider.IsEnabledFor(l.module, lvl) {
		return
	}

	var logger kitlog.Logger
	switch lvl {
	case api.DEBUG:
		logger = level.Debug(l.base)
	case api.INFO:
		logger = level.Info(l.base)
	case api.WARNING:
		logger = level.Warn(l.base)
	default:
		logger = level.Error(l.base)
	}
	_ = logger.Log("msg", msg)
}

// Debug logs at DEBUG level
func (l *Log) Debug(args ...interface{}) {
	l.log(api.DEBUG, fmt.Sprint(args...))
}

// Debugf logs formatted at DEBUG level
func (l *Log) Debugf(format string, args ...interface{}) {
	l.log(api.DEBUG, fmt.Sprintf(format, args...))
}

// Info logs at INFO level
func (l *Log) Info(args ...interface{}) {
	l.log(api.INFO, fmt.Sprint(args...))
}

// Infof logs formatted at INFO level
func (l *Log) Infof(format string, args ...interface{}) {
	l.log(api.INFO, fmt.Sprintf(format, args...))
}

// Warn logs at WARNING level
func (l *Log) Warn(args ...interface{}) {
	l.log(api.WARNING, fmt.Sprint(args...))
}

// Warnf logs formatted at WARNING level
func (l *Log) Warnf(format string, args ...interface{}) {
	l.log(api.WARNING, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level
func (l *Log) Error(args ...interface{}) {
	l.log(api.ERROR, fmt.Sprint(args...))
}

// Errorf logs formatted at ERROR level
func (l *Log) Errorf(format string, args ...interface{}) {
	l.log(api.ERROR, fmt.Sprintf(format, args...))
}

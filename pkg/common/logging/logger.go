/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logging provides module scoped loggers over an explicitly passed
// logger provider.
//
//  Basic Flow:
//  1) Create a provider (or pass nil for the default go-kit provider)
//  2) Create new logger for specific module
//  3) Call log info
package logging

import (
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/kitlog"
	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/metadata"
)

//Logger basic implementation of api.Logger interface
type Logger struct {
	instance api.Logger
	module   string
}

// Level defines all available log levels for log messages.
type Level int

// Log levels.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

// NewLogger creates a Logger for the module on the given provider.
// A nil provider yields a default provider writing to stderr, owned by this logger.
func NewLogger(module string, provider api.LoggerProvider) *Logger {
	if provider == nil {
		provider = kitlog.New(nil)
	}
	return &Logger{module: module, instance: provider.GetLogger(module)}
}

// LogLevel returns the log level from a string representation.
//  Parameters:
//  level is logging level in string representation
//
//  Returns:
//  logging level
func LogLevel(level string) (Level, error) {
	l, err := metadata.ParseLevel(level)
	return Level(l), err
}

// Module returns the module name of this logger
func (l *Logger) Module() string {
	return l.module
}

//Debug calls Debug function of underlying logger
func (l *Logger) Debug(args ...interface{}) {
	l.instance.Debug(args...)
}

//Debugf calls Debugf function of underlying logger
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.instance.Debugf(format, args...)
}

//Info calls Info function of underlying logger
func (l *Logger) Info(args ...interface{}) {
	l.instance.Info(args...)
}

//Infof calls Infof function of underlying logger
func (l *Logger) Infof(format string, args ...interface{}) {
	l.instance.Infof(format, args...)
}

//Warn calls Warn function of underlying logger
func (l *Logger) Warn(args ...interface{}) {
	l.instance.Warn(args...)
}

//Warnf calls Warnf function of underlying logger
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.instance.Warnf(format, args...)
}

//Error calls Error function of underlying logger
func (l *Logger) Error(args ...interface{}) {
	l.instance.Error(args...)
}

//Errorf calls Errorf function of underlying logger
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.instance.Errorf(format, args...)
}

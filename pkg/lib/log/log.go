// Package log exposes the logger contract used by the slimeboard SDK.
//
// Clients log nothing unless a [Logger] is set in the client config. Any type
// with the Infof/Warningf/Errorf/Debugf family and the value helpers works, a
// logrus entry wrapped by the caller being the usual choice:
//
//	client, err := lib.New(ctx, lib.Config{Logger: myLogger})
package log

import "github.com/slok/slimeboard/internal/log"

// Logger is the logger accepted by the SDK.
type Logger = log.Logger

// Kv holds structured log fields.
type Kv = log.Kv

// Noop discards every log line.
var Noop = log.Noop

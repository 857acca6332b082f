//go:build !linux

// Package xroot provides a stub root window setter for non-Linux platforms.
package xroot

import "errors"

// RootWindow is unavailable on non-Linux platforms.
type RootWindow struct{}

// Connect always fails on non-Linux platforms.
func Connect() (*RootWindow, error) {
	return nil, errors.New("x root window output requires linux")
}

// Set always fails on non-Linux platforms.
func (w *RootWindow) Set(line string) error {
	return errors.New("x root window output requires linux")
}

// Close is a no-op on non-Linux platforms.
func (w *RootWindow) Close() error {
	return nil
}

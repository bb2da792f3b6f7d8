//go:build !darwin && !freebsd && !linux && !netbsd && !openbsd
// +build !darwin,!freebsd,!linux,!netbsd,!openbsd

package xattrs

import "errors"

// hostSystem on platforms without an extended attribute interface
// reports every listing as unsupported.
type hostSystem struct{}

func (hostSystem) List(path string) ([]string, error) {
	return nil, ErrNotSupported
}

func (hostSystem) Get(path, name string) ([]byte, error) {
	return nil, ErrNotSupported
}

func isNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}

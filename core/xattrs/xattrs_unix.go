//go:build darwin || freebsd || linux || netbsd || openbsd
// +build darwin freebsd linux netbsd openbsd

package xattrs

import (
	"errors"
	"syscall"

	"github.com/pkg/xattr"
)

// hostSystem performs the real OS calls through github.com/pkg/xattr.
// The L variants never follow symlinks, so enumerating a link reports
// the link's own attributes.
type hostSystem struct{}

func (hostSystem) List(path string) ([]string, error) {
	return xattr.LList(path)
}

func (hostSystem) Get(path, name string) ([]byte, error) {
	return xattr.LGet(path, name)
}

// isNotSupported reports whether err means the filesystem has no
// extended attribute interface.
func isNotSupported(err error) bool {
	var e *xattr.Error
	if errors.As(err, &e) {
		err = e.Err
	}
	return err == syscall.ENOTSUP || err == syscall.EOPNOTSUPP
}

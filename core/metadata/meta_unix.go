//go:build darwin || freebsd || linux || netbsd || openbsd
// +build darwin freebsd linux netbsd openbsd

package metadata

import "syscall"

// Sys is the underlying type of the os.FileInfo.Sys() interface.
type Sys syscall.Stat_t

// toSys converts the os.FileInfo.Sys() interface to the underlying type.
// Input:
// - i: the os.FileInfo.Sys() interface
// Output:
// - *Sys: the underlying type
func toSys(i any) (*Sys, bool) {
	s, ok := i.(*syscall.Stat_t)
	if ok && s != nil {
		return (*Sys)(s), true
	}
	return nil, false
}

func (s *Sys) nlink() uint64 { return uint64(s.Nlink) }
func (s *Sys) uid() uint32   { return s.Uid }
func (s *Sys) gid() uint32   { return s.Gid }
func (s *Sys) size() int64   { return s.Size }

//go:build !darwin && !freebsd && !linux && !netbsd && !openbsd
// +build !darwin,!freebsd,!linux,!netbsd,!openbsd

package metadata

// Sys carries no extra attributes on platforms without a Unix stat
// structure; callers fall back to the portable os.FileInfo fields.
type Sys struct{}

func toSys(i any) (*Sys, bool) {
	return nil, false
}

func (s *Sys) nlink() uint64 { return 1 }
func (s *Sys) uid() uint32   { return 0 }
func (s *Sys) gid() uint32   { return 0 }
func (s *Sys) size() int64   { return 0 }

package metadata

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"file-meta-collector/core/utils"
	"file-meta-collector/core/xattrs"
)

// FSType is the type of the file system entry.
const (
	FSTypeFile       = "file"
	FSTypeDir        = "dir"
	FSTypeSymlink    = "symlink"
	FSTypeCharDevice = "chardev"
	FSTypeDevice     = "dev"
	FSTypeNamedPipe  = "fifo"
	FSTypeSocket     = "socket"
	FSTypeUnknown    = "unknown"
)

// RetrieveFileSystemMeta retrieves the file system metadata of the file at the given path.
// Input:
// - path: the path to the file
// - fi: the os.FileInfo of the file
// Output:
// - meta: the metadata of the file, including its extended attributes
func RetrieveFileSystemMeta(path string, fi os.FileInfo) (*Meta, error) {
	path, err := filepath.Abs(path) // replace the relative path with the absolute path
	if err != nil {
		return nil, err
	}

	// fill the basic attributes
	mask := os.ModePerm | os.ModeType | os.ModeSetuid | os.ModeSetgid | os.ModeSticky
	meta := &Meta{
		Common: CommonAttrs{
			Path: path,      // absolute path in the source file system
			Name: fi.Name(), // file name without the directory path
		},
		FileSystem: &FileSystemAttrs{
			Mode:    fi.Mode() & mask, // file mode bits
			ModTime: uint64(fi.ModTime().Unix()),
		},
	}

	// fill the file type
	switch fi.Mode() & (os.ModeType | os.ModeCharDevice) {
	case 0:
		meta.FileSystem.Type = FSTypeFile
	case os.ModeDir:
		meta.FileSystem.Type = FSTypeDir
	case os.ModeSymlink:
		meta.FileSystem.Type = FSTypeSymlink
	case os.ModeDevice | os.ModeCharDevice:
		meta.FileSystem.Type = FSTypeCharDevice
	case os.ModeDevice:
		meta.FileSystem.Type = FSTypeDevice
	case os.ModeNamedPipe:
		meta.FileSystem.Type = FSTypeNamedPipe
	case os.ModeSocket:
		meta.FileSystem.Type = FSTypeSocket
	default:
		meta.FileSystem.Type = FSTypeUnknown
		slog.Warn("Unknown file type", slog.String("path", path), slog.Any("mode", fi.Mode()))
	}

	if meta.FileSystem.Type == FSTypeFile { // file-specific attributes
		meta.Common.Size = uint64(fi.Size()) // file size in bytes
		meta.Common.Hash, err = utils.MD5Hash(path)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate the md5 hash of the file %s: %w", path, err)
		}
	}

	// fill the extra underlying file system attributes
	underSys, ok := toSys(fi.Sys())
	if !ok {
		meta.FileSystem.UID = uint32(os.Getuid()) // user id of the owner
		meta.FileSystem.GID = uint32(os.Getgid()) // group id of the owner
	} else {
		meta.FileSystem.UID = underSys.uid()
		meta.FileSystem.GID = underSys.gid()

		switch meta.FileSystem.Type {
		case FSTypeFile:
			meta.Common.Size = uint64(underSys.size()) // file size in bytes
			meta.FileSystem.Links = underSys.nlink()   // number of hard links
		case FSTypeDir:
		case FSTypeSymlink:
			meta.FileSystem.Links = underSys.nlink() // number of hard links
			meta.FileSystem.LinkTarget, err = os.Readlink(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read the link target of the symlink %s: %w", path, err)
			}
		case FSTypeDevice, FSTypeCharDevice:
			meta.FileSystem.Links = underSys.nlink() // number of hard links
		case FSTypeNamedPipe, FSTypeSocket, FSTypeUnknown:
		default:
			return meta, nil // return the meta without the extended attributes
		}
	}

	// retrieve the extended attributes; per-attribute fetch failures
	// are logged and skipped inside the iterator
	it, err := xattrs.List(path)
	if err != nil {
		if errors.Is(err, xattrs.ErrNotSupported) {
			return meta, nil // nothing to record on this file system
		}
		return nil, fmt.Errorf("failed to list the extended attributes of the file %s: %w", path, err)
	}
	meta.ExtendedAttributes = it.Collect()

	return meta, nil
}

// Meta is the main structure that combines common and file-system-specific attributes.
type Meta struct {
	Common     CommonAttrs
	FileSystem *FileSystemAttrs

	ExtendedAttributes []xattrs.Attribute
}

// Equals compares two metadata records field by field and returns a
// human-readable reason per mismatch. Extended attribute sets compare
// as unordered collections because listing order is not stable across
// file systems.
func (m *Meta) Equals(other *Meta) []string {
	var reasons []string

	if m.Common.Name != other.Common.Name {
		reasons = append(reasons, fmt.Sprintf("name mismatch: %q != %q", m.Common.Name, other.Common.Name))
	}
	if m.Common.Size != other.Common.Size {
		reasons = append(reasons, fmt.Sprintf("size mismatch: %d != %d", m.Common.Size, other.Common.Size))
	}
	if m.Common.Hash != other.Common.Hash {
		reasons = append(reasons, fmt.Sprintf("hash mismatch: %s != %s", m.Common.Hash, other.Common.Hash))
	}

	if (m.FileSystem == nil) != (other.FileSystem == nil) {
		reasons = append(reasons, "file system attributes present on only one side")
	} else if m.FileSystem != nil {
		if m.FileSystem.Type != other.FileSystem.Type {
			reasons = append(reasons, fmt.Sprintf("type mismatch: %s != %s", m.FileSystem.Type, other.FileSystem.Type))
		}
		if m.FileSystem.Mode != other.FileSystem.Mode {
			reasons = append(reasons, fmt.Sprintf("mode mismatch: %s != %s", m.FileSystem.Mode, other.FileSystem.Mode))
		}
		if m.FileSystem.ModTime != other.FileSystem.ModTime {
			reasons = append(reasons, fmt.Sprintf("mtime mismatch: %d != %d", m.FileSystem.ModTime, other.FileSystem.ModTime))
		}
		if m.FileSystem.UID != other.FileSystem.UID {
			reasons = append(reasons, fmt.Sprintf("uid mismatch: %d != %d", m.FileSystem.UID, other.FileSystem.UID))
		}
		if m.FileSystem.GID != other.FileSystem.GID {
			reasons = append(reasons, fmt.Sprintf("gid mismatch: %d != %d", m.FileSystem.GID, other.FileSystem.GID))
		}
		if m.FileSystem.Links != other.FileSystem.Links {
			reasons = append(reasons, fmt.Sprintf("links mismatch: %d != %d", m.FileSystem.Links, other.FileSystem.Links))
		}
		if m.FileSystem.LinkTarget != other.FileSystem.LinkTarget {
			reasons = append(reasons, fmt.Sprintf("link target mismatch: %q != %q", m.FileSystem.LinkTarget, other.FileSystem.LinkTarget))
		}
	}

	return append(reasons, compareAttrs(m.ExtendedAttributes, other.ExtendedAttributes)...)
}

// compareAttrs compares two extended attribute sets as unordered
// collections of name/value pairs.
func compareAttrs(want, got []xattrs.Attribute) []string {
	var reasons []string

	wantByName := make(map[string][]byte, len(want))
	names := make([]string, 0, len(want))
	for _, attr := range want {
		wantByName[attr.Name] = attr.Value
		names = append(names, attr.Name)
	}
	sort.Strings(names)

	gotByName := make(map[string][]byte, len(got))
	for _, attr := range got {
		gotByName[attr.Name] = attr.Value
	}

	for _, name := range names {
		value, ok := gotByName[name]
		if !ok {
			reasons = append(reasons, fmt.Sprintf("xattr %s missing", name))
			continue
		}
		if string(wantByName[name]) != string(value) {
			reasons = append(reasons, fmt.Sprintf("xattr %s value mismatch", name))
		}
	}
	for _, attr := range got {
		if _, ok := wantByName[attr.Name]; !ok {
			reasons = append(reasons, fmt.Sprintf("xattr %s unexpected", attr.Name))
		}
	}

	return reasons
}

// CommonAttrs captures attributes that are common across different storage systems.
type CommonAttrs struct {
	// Path is the full source path to the file including the file name. It can be used to
	// construct the full destination path.
	Path string

	// Name is the file name without the directory path.
	Name string

	// Size is the size of the file in bytes.
	Size uint64

	// Hash is the hex-encoded MD5 hash of the file content. MD5 is unsuitable for anything
	// security-sensitive, but it is fast and detecting accidental corruption is the only
	// use it has here.
	Hash string
}

// FileSystemAttrs captures file-system-specific attributes.
type FileSystemAttrs struct {
	// Type is the type of the file. It can be one of the following values:
	// - file: a regular file
	// - dir: a directory
	// - symlink: a symbolic link
	// - chardev: a character device
	// - dev: a block device
	// - fifo: a named pipe
	// - socket: a socket
	Type string

	// Mode is the file mode bits.
	Mode os.FileMode

	// ModTime is the modification time of the file in seconds since the Unix epoch.
	ModTime uint64

	// UID is the user id of the owner.
	UID uint32

	// GID is the group id of the owner.
	GID uint32

	// Links is the number of hard links.
	Links uint64

	// LinkTarget is the path to the target of the symbolic link.
	LinkTarget string
}

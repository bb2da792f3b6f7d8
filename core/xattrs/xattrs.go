// Package xattrs enumerates the extended attributes of a single
// filesystem entry. Enumeration is a two-phase operation: one eager
// listing call that returns the attribute names, then one value fetch
// per name. Only the listing call can fail the enumeration; a failed
// value fetch is logged and the attribute is skipped, so a partially
// readable entry still produces useful results.
package xattrs

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotSupported is returned by the listing call when the underlying
// filesystem has no extended attribute interface.
var ErrNotSupported = errors.New("extended attributes not supported")

// Attribute is one extended attribute of a file at the moment of
// enumeration.
type Attribute struct {
	// Name is the attribute name. It is platform-defined bytes and is
	// not guaranteed to be valid text.
	Name string

	// Value is the attribute value. A nil or zero-length value means
	// the attribute carries no value.
	Value []byte
}

// System abstracts the pair of OS calls the enumeration needs. The
// iterator logic is written once against this interface; the
// per-platform implementations live in the build-tagged files.
type System interface {
	// List returns the names of all extended attributes of path.
	List(path string) ([]string, error)

	// Get returns the value of the named extended attribute of path.
	Get(path, name string) ([]byte, error)
}

// Enumerator enumerates the extended attributes of filesystem entries.
// The zero value uses the host platform calls and slog.Default().
type Enumerator struct {
	// Sys performs the OS calls. Nil means the host default.
	Sys System

	// Log receives one warning record per swallowed value fetch
	// failure. Nil means slog.Default().
	Log *slog.Logger
}

// List performs the single listing call for path and returns an
// iterator over the listed attributes. Listing is the only point where
// the enumeration can fail as a whole: on failure no attributes are
// produced and the error is returned directly. Not-found and
// permission failures keep their platform error chain and match
// os.ErrNotExist and os.ErrPermission through errors.Is; a missing
// extended attribute interface matches ErrNotSupported.
//
// Attributes added or removed after the listing call are not
// reflected; a value fetch racing such a change fails and is handled
// like any other fetch failure.
func (e *Enumerator) List(path string) (*Iterator, error) {
	sys := e.Sys
	if sys == nil {
		sys = hostSystem{}
	}

	names, err := sys.List(path)
	if err != nil {
		return nil, classify(err)
	}

	log := e.Log
	if log == nil {
		log = slog.Default()
	}
	return &Iterator{path: path, names: names, sys: sys, log: log}, nil
}

// List enumerates the extended attributes of path with the host
// platform calls and the default logger.
func List(path string) (*Iterator, error) {
	return (&Enumerator{}).List(path)
}

// Iterator yields one Attribute per name returned by the listing call,
// in listing order. A value fetch failure never terminates it: the
// failed attribute is logged at warning level and skipped, and the
// iterator ends only once the listed names are exhausted.
//
// An Iterator is single-pass and not safe for concurrent use.
type Iterator struct {
	path  string
	names []string
	sys   System
	log   *slog.Logger
}

// Next returns the next attribute. It reports false once all listed
// names have been consumed.
func (it *Iterator) Next() (Attribute, bool) {
	for len(it.names) > 0 {
		name := it.names[0]
		it.names = it.names[1:]

		value, err := it.sys.Get(it.path, name)
		if err != nil {
			it.log.Warn("Failed to fetch the extended attribute value",
				slog.String("xattr", name),
				slog.String("path", it.path),
				slog.Any("err", err),
			)
			continue
		}
		return Attribute{Name: name, Value: value}, true
	}
	return Attribute{}, false
}

// Collect drains the iterator into a slice.
func (it *Iterator) Collect() []Attribute {
	attrs := make([]Attribute, 0, len(it.names))
	for {
		attr, ok := it.Next()
		if !ok {
			return attrs
		}
		attrs = append(attrs, attr)
	}
}

// classify maps a missing-interface failure from the platform calls to
// ErrNotSupported. Every other error keeps its original chain.
func classify(err error) error {
	if errors.Is(err, ErrNotSupported) {
		return err
	}
	if isNotSupported(err) {
		return fmt.Errorf("%w: %v", ErrNotSupported, err)
	}
	return err
}

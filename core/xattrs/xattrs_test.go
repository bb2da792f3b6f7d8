package xattrs

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSystem serves attributes from memory and fails on demand, so the
// iterator behaviour is testable without a filesystem.
type fakeSystem struct {
	names   []string
	values  map[string][]byte
	listErr error
	getErr  map[string]error
}

func (s *fakeSystem) List(path string) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.names, nil
}

func (s *fakeSystem) Get(path, name string) ([]byte, error) {
	if err, ok := s.getErr[name]; ok {
		return nil, err
	}
	value, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("no such attribute: %s", name)
	}
	return value, nil
}

func newCapturedLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

func TestListNoAttributes(t *testing.T) {
	log, buf := newCapturedLogger()
	e := &Enumerator{Sys: &fakeSystem{}, Log: log}

	it, err := e.List("/tmp/file")
	require.NoError(t, err)
	require.Empty(t, it.Collect())
	require.Empty(t, buf.String())
}

func TestListFailureIsFatal(t *testing.T) {
	listErr := errors.New("boom")
	e := &Enumerator{Sys: &fakeSystem{listErr: listErr}}

	_, err := e.List("/tmp/file")
	require.ErrorIs(t, err, listErr)
}

func TestListNotSupportedPassthrough(t *testing.T) {
	e := &Enumerator{Sys: &fakeSystem{listErr: ErrNotSupported}}

	_, err := e.List("/tmp/file")
	require.ErrorIs(t, err, ErrNotSupported)
	require.Equal(t, ErrNotSupported, err, "an already classified error must not be wrapped again")
}

func TestFetchFailureIsSkippedAndLogged(t *testing.T) {
	log, buf := newCapturedLogger()
	e := &Enumerator{
		Sys: &fakeSystem{
			names:  []string{"a", "b", "c"},
			values: map[string][]byte{"a": []byte("1"), "b": []byte("2"), "c": []byte("3")},
			getErr: map[string]error{"b": errors.New("attribute vanished")},
		},
		Log: log,
	}

	it, err := e.List("/tmp/file")
	require.NoError(t, err)
	require.Equal(t, []Attribute{
		{Name: "a", Value: []byte("1")},
		{Name: "c", Value: []byte("3")},
	}, it.Collect())

	warnings := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "level=WARN")
	require.Contains(t, warnings[0], "xattr=b")
	require.Contains(t, warnings[0], "path=/tmp/file")
	require.Contains(t, warnings[0], "attribute vanished")
}

func TestAllFetchesFailing(t *testing.T) {
	log, buf := newCapturedLogger()
	e := &Enumerator{
		Sys: &fakeSystem{
			names: []string{"a", "b"},
			getErr: map[string]error{
				"a": errors.New("gone"),
				"b": errors.New("gone"),
			},
		},
		Log: log,
	}

	it, err := e.List("/tmp/file")
	require.NoError(t, err)
	require.Empty(t, it.Collect())
	require.Equal(t, 2, strings.Count(buf.String(), "level=WARN"))
}

func TestValuelessAttribute(t *testing.T) {
	log, buf := newCapturedLogger()
	e := &Enumerator{
		Sys: &fakeSystem{
			names:  []string{"empty"},
			values: map[string][]byte{"empty": {}},
		},
		Log: log,
	}

	it, err := e.List("/tmp/file")
	require.NoError(t, err)

	attr, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, "empty", attr.Name)
	require.Empty(t, attr.Value)
	require.Empty(t, buf.String(), "a valueless attribute is not a failure")
}

func TestIteratorPreservesListingOrder(t *testing.T) {
	names := []string{"z", "a", "m"}
	e := &Enumerator{
		Sys: &fakeSystem{
			names:  names,
			values: map[string][]byte{"z": nil, "a": nil, "m": nil},
		},
	}

	it, err := e.List("/tmp/file")
	require.NoError(t, err)
	var got []string
	for {
		attr, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, attr.Name)
	}
	require.Equal(t, names, got)
}

func TestIteratorIsSinglePass(t *testing.T) {
	e := &Enumerator{
		Sys: &fakeSystem{
			names:  []string{"a"},
			values: map[string][]byte{"a": []byte("1")},
		},
	}

	it, err := e.List("/tmp/file")
	require.NoError(t, err)

	_, ok := it.Next()
	require.True(t, ok)
	_, ok = it.Next()
	require.False(t, ok)
	_, ok = it.Next()
	require.False(t, ok, "an exhausted iterator stays exhausted")
}

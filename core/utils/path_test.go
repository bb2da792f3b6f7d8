package utils

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSubPath(t *testing.T) {
	dir := t.TempDir()

	ok, err := IsSubPath(dir, filepath.Join(dir, "sub", "file"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = IsSubPath(filepath.Join(dir, "sub"), dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMD5Hash(t *testing.T) {
	content := []byte("hash me")
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, content, 0600))

	hash, err := MD5Hash(path)
	require.NoError(t, err)

	sum := md5.Sum(content)
	require.Equal(t, hex.EncodeToString(sum[:]), hash)
}

package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"file-meta-collector/core/datasource"
	"file-meta-collector/core/metadata"
	"file-meta-collector/core/xattrs"
)

func TestVerifyReadsLargeAttributeRecord(t *testing.T) {
	targetDir := t.TempDir()
	path := filepath.Join(targetDir, "file")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0600))

	fi, err := os.Lstat(path)
	require.NoError(t, err)
	meta, err := metadata.RetrieveFileSystemMeta(path, fi)
	require.NoError(t, err)

	// a value at the Linux VFS ceiling makes the serialised record
	// longer than bufio.Scanner's default token limit
	meta.ExtendedAttributes = append(meta.ExtendedAttributes, xattrs.Attribute{
		Name:  "user.huge",
		Value: bytes.Repeat([]byte{0xab}, 64*1024),
	})

	record, err := metadata.Serialise(meta)
	require.NoError(t, err)
	header, err := json.Marshal(datasource.MetaHeader{SourceDir: targetDir, ItemCount: 1})
	require.NoError(t, err)

	content := &bytes.Buffer{}
	content.Write(header)
	content.WriteByte('\n')
	content.Write(record)
	content.WriteByte('\n')

	metaPath := filepath.Join(t.TempDir(), "meta.out")
	require.NoError(t, os.WriteFile(metaPath, content.Bytes(), 0600))

	reporter, err := NewReporter(filepath.Join(t.TempDir(), "report.txt"))
	require.NoError(t, err)

	v, err := NewFileVerifier(targetDir, reporter)
	require.NoError(t, err)

	// the record parses despite its length; the fabricated attribute is
	// absent on disk, so it surfaces as a mismatch rather than a read error
	require.NoError(t, v.Verify(context.Background(), metaPath, 1))
	require.Equal(t, 1, reporter.Len())
}

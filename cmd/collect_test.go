package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"file-meta-collector/core/datasource"
	"file-meta-collector/core/metadata"
	"file-meta-collector/core/utils"
	"file-meta-collector/core/verifier"
)

func collectTree(t *testing.T, srcDir, outDir string) string {
	t.Helper()

	ds, err := datasource.NewFileSource(srcDir)
	require.NoError(t, err)

	writer, err := datasource.NewMetaWriter(srcDir, outDir)
	require.NoError(t, err)

	metaItemC := make(chan *metadata.Meta, 1)
	g, gCtx := errgroup.WithContext(context.Background())
	g.Go(func() error { return ds.Walk(gCtx, outDir, metaItemC, 2) })
	g.Go(func() error { return writer.Write(gCtx, metaItemC, 2) })
	require.NoError(t, g.Wait())

	return filepath.Join(outDir, utils.GetOutputFileName())
}

func TestCollectWritesMetadataFile(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("aaa"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "b.txt"), []byte("bbb"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(srcDir, "sub"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "sub", "c.txt"), []byte("ccc"), 0600))

	metaPath := collectTree(t, srcDir, t.TempDir())

	metaFile, err := os.Open(metaPath)
	require.NoError(t, err)
	defer metaFile.Close()

	s := bufio.NewScanner(metaFile)
	require.True(t, s.Scan())

	header := datasource.MetaHeader{}
	require.NoError(t, json.Unmarshal([]byte(s.Text()), &header))
	require.Equal(t, uint64(4), header.ItemCount) // a.txt, b.txt, sub, sub/c.txt

	var items int
	for s.Scan() {
		item, err := metadata.Deserialise([]byte(s.Text()))
		require.NoError(t, err)
		require.NotEmpty(t, item.Common.Path)
		items++
	}
	require.NoError(t, s.Err())
	require.Equal(t, int(header.ItemCount), items)
}

func TestCollectSkipsOutputDirInsideSource(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("aaa"), 0600))
	outDir := filepath.Join(srcDir, "out")

	metaPath := collectTree(t, srcDir, outDir)

	metaFile, err := os.Open(metaPath)
	require.NoError(t, err)
	defer metaFile.Close()

	s := bufio.NewScanner(metaFile)
	require.True(t, s.Scan())

	header := datasource.MetaHeader{}
	require.NoError(t, json.Unmarshal([]byte(s.Text()), &header))
	require.Equal(t, uint64(1), header.ItemCount, "the output directory must not be collected")

	for s.Scan() {
		item, err := metadata.Deserialise([]byte(s.Text()))
		require.NoError(t, err)
		require.False(t, strings.HasPrefix(item.Common.Path, outDir))
	}
	require.NoError(t, s.Err())
}

func TestCollectThenVerify(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("aaa"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "b.txt"), []byte("bbb"), 0600))

	outDir := t.TempDir()
	metaPath := collectTree(t, srcDir, outDir)

	reporter, err := verifier.NewReporter(filepath.Join(outDir, "report.txt"))
	require.NoError(t, err)

	v, err := verifier.NewFileVerifier(srcDir, reporter)
	require.NoError(t, err)
	require.NoError(t, v.Verify(context.Background(), metaPath, 2))
	require.Zero(t, reporter.Len())

	// drift must be reported
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("changed"), 0600))
	require.NoError(t, v.Verify(context.Background(), metaPath, 2))
	require.Equal(t, 1, reporter.Len())
}

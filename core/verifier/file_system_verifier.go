package verifier

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/errgroup"

	"file-meta-collector/core/datasource"
	"file-meta-collector/core/metadata"
)

type FileVerifier struct {
	targetDir string
	reporter  *Reporter
}

func NewFileVerifier(targetDir string, reporter *Reporter) (Verifier, error) {
	targetDir, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, err
	}

	if _, err = os.Stat(targetDir); err != nil {
		return nil, fmt.Errorf("failed to stat target directory: %w", err)
	}
	return &FileVerifier{targetDir: targetDir, reporter: reporter}, nil
}

// Verify reads the metadata file line by line and re-collects the metadata of each
// corresponding file under the target directory, recording every mismatch through
// the reporter. Extended attribute sets compare order-independently.
func (fv *FileVerifier) Verify(ctx context.Context, filePath string, workerCount int) error {
	filePath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}
	metaFile, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer metaFile.Close()

	// records can exceed bufio.Scanner's default token limit (one
	// attribute value at the 64KB OS ceiling base64-inflates to ~87KB
	// in JSON), so the file is read with ReadBytes instead
	reader := bufio.NewReader(metaFile)

	// unmarshal the first line of the metadata file to srcHeader
	headerRow, err := reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	srcHeader := datasource.MetaHeader{}
	if err = json.Unmarshal(headerRow, &srcHeader); err != nil {
		return err
	}

	itemCounts := make([]uint64, workerCount)

	slog.Info("Start to verify metadata file:", slog.String("MetaFilePath", filePath))

	rowC := make(chan []byte, 1)
	group, groupCtx := errgroup.WithContext(ctx)

	go VerifyProgressWatch(groupCtx, int64(srcHeader.ItemCount), itemCounts)

	group.Go(func() error {
		defer close(rowC)
		for {
			row, _err := reader.ReadBytes('\n')
			if trimmed := bytes.TrimSpace(row); len(trimmed) > 0 {
				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case rowC <- trimmed:
				}
			}
			if _err != nil {
				if errors.Is(_err, io.EOF) {
					return nil
				}
				return _err
			}
		}
	})

	for i := 0; i < workerCount; i++ {
		_i := i
		group.Go(func() error {
			for {
				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case row, ok := <-rowC:
					if !ok {
						return nil
					}

					item, _err := metadata.Deserialise(row)
					if _err != nil {
						fv.reporter.Record("InvalidJSON", fmt.Errorf("source: %s, error: %s", string(row), _err.Error()))
						continue
					}

					itemCounts[_i]++

					targetPath := strings.Replace(item.Common.Path, srcHeader.SourceDir, fv.targetDir, 1)
					fileStat, _err := os.Lstat(targetPath)
					if _err != nil {
						fv.reporter.Record("FileNotFound", fmt.Errorf("source: %s, error: %s", string(row), _err.Error()))
						continue
					}

					targetItem, _err := metadata.RetrieveFileSystemMeta(targetPath, fileStat)
					if _err != nil {
						fv.reporter.Record("RetrieveMetaFail", fmt.Errorf("source: %s, error: %s", string(row), _err.Error()))
						continue
					}

					reasons := item.Equals(targetItem)
					if len(reasons) > 0 {
						fv.reporter.Record("MetaMismatch", fmt.Errorf("source: %s, error: %s", string(row), strings.Join(reasons, ",")))
						continue
					}
				}
			}
		})
	}
	err = group.Wait()
	if err != nil {
		return err
	}

	slog.Info("Finish to verify metadata file:", slog.String("MetaFilePath", filePath))

	var totalCount uint64
	for _, itemCount := range itemCounts {
		totalCount += itemCount
	}
	if totalCount != srcHeader.ItemCount {
		return fmt.Errorf("item count mismatch. expect %d, got %d", srcHeader.ItemCount, totalCount)
	}

	return nil
}

func VerifyProgressWatch(ctx context.Context, total int64, itemCounts []uint64) {
	bar := pb.New64(total)
	bar.Start()
	defer bar.Finish()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			var totalCount uint64
			for _, itemCount := range itemCounts {
				totalCount += itemCount
			}
			bar.SetCurrent(int64(totalCount))
			return
		case <-ticker.C:
			var totalCount uint64
			for _, itemCount := range itemCounts {
				totalCount += itemCount
			}
			bar.SetCurrent(int64(totalCount))
		}
	}
}

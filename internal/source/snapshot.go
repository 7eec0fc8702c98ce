package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// SnapshotFile describes one written snapshot.
type SnapshotFile struct {
	Tab   Tab
	Path  string
	Bytes int64
}

// SnapshotOptions controls Snapshot.
type SnapshotOptions struct {
	// Compress writes <gid>.csv.lz4 instead of <gid>.csv.
	Compress bool
	// OnWrite is called after each file is written.
	OnWrite func(SnapshotFile)
}

// Snapshot copies every tab from src into dir using the file layout that
// FileSource reads. It stops at the first failing tab.
func Snapshot(ctx context.Context, src Source, tabs Tabs, dir string, opts SnapshotOptions) ([]SnapshotFile, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	files := make([]SnapshotFile, 0, len(tabs))

	for _, tab := range tabs.Sorted() {
		gid, err := tabs.GID(tab)
		if err != nil {
			return files, err
		}

		text, err := src.Fetch(ctx, tab)
		if err != nil {
			return files, fmt.Errorf("snapshot %s: %w", tab, err)
		}

		file, err := writeSnapshot(dir, gid, text, opts.Compress)
		if err != nil {
			return files, err
		}

		file.Tab = tab
		files = append(files, file)

		if opts.OnWrite != nil {
			opts.OnWrite(file)
		}
	}

	return files, nil
}

func writeSnapshot(dir, gid, text string, compress bool) (SnapshotFile, error) {
	if !compress {
		path := filepath.Join(dir, gid+csvExt)

		if err := os.WriteFile(path, []byte(text), filePerm); err != nil {
			return SnapshotFile{}, fmt.Errorf("write %s: %w", path, err)
		}

		return SnapshotFile{Path: path, Bytes: int64(len(text))}, nil
	}

	path := filepath.Join(dir, gid+lz4Ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return SnapshotFile{}, fmt.Errorf("create %s: %w", path, err)
	}

	zw := lz4.NewWriter(f)

	_, copyErr := io.WriteString(zw, text)
	closeErr := zw.Close()
	fileErr := f.Close()

	for _, e := range []error{copyErr, closeErr, fileErr} {
		if e != nil {
			return SnapshotFile{}, fmt.Errorf("write %s: %w", path, e)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return SnapshotFile{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return SnapshotFile{Path: path, Bytes: info.Size()}, nil
}

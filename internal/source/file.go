package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
)

const (
	csvExt = ".csv"
	lz4Ext = ".csv.lz4"
)

// FileSource reads <Dir>/<gid>.csv, falling back to the lz4-compressed
// <Dir>/<gid>.csv.lz4 snapshot.
type FileSource struct {
	Dir  string
	Tabs Tabs
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context, tab Tab) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	gid, err := s.Tabs.GID(tab)
	if err != nil {
		return "", err
	}

	plain := filepath.Join(s.Dir, gid+csvExt)

	data, err := os.ReadFile(plain)
	if err == nil {
		return string(data), nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read %s: %w", plain, err)
	}

	return readLZ4(filepath.Join(s.Dir, gid+lz4Ext))
}

func readLZ4(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		return "", fmt.Errorf("decompress %s: %w", path, err)
	}

	return string(data), nil
}

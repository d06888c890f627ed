package validation

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

var ErrEmptyArchive = errors.New("archive contains no files")

func isArchive(ext string) bool {
	switch ext {
	case ".zip", ".7z", ".rar":
		return true
	}
	return false
}

// inspectArchive opens the archive directory without extracting it
func inspectArchive(ext string, data []byte) error {
	var (
		n   int
		err error
	)
	switch ext {
	case ".zip":
		n, err = countZip(data)
	case ".7z":
		n, err = count7z(data)
	case ".rar":
		n, err = countRar(data)
	default:
		return fmt.Errorf("unsupported archive: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("invalid %s archive: %w", ext, err)
	}
	if n == 0 {
		return ErrEmptyArchive
	}
	return nil
}

func countZip(data []byte) (int, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			n++
		}
	}
	return n, nil
}

func count7z(data []byte) (int, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			n++
		}
	}
	return n, nil
}

func countRar(data []byte) (int, error) {
	r, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		h, err := r.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		if !h.IsDir {
			n++
		}
	}
}

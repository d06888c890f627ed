package validation

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/retrocade/retrocade/internal/model"
)

var ErrEmptyFile = errors.New("file is empty")

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
}

// ImageConstraints defines validation rules for cover uploads
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	},
}

// CoverMimeType returns the mime type sniffed from the cover content.
// The client-supplied name plays no part in it.
func CoverMimeType(data []byte) string {
	// http.DetectContentType reads max 512 bytes to determine MIME type
	return http.DetectContentType(data)
}

// CheckCover reports whether an uploaded cover is one of the listed image types.
func CheckCover(filename string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}

	detectedType := CoverMimeType(data)
	if !ImageConstraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !ImageConstraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}

// RomMimeType returns the mime type to serve a ROM with.
func RomMimeType(filename string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}

// CheckRom checks an uploaded ROM against the platform's extensions. An empty
// platform accepts any known platform's extensions. Archives must open and
// hold at least one file.
func CheckRom(filename, platform string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if platform != "" {
		p, ok := model.PlatformByID(platform)
		if !ok {
			return fmt.Errorf("unknown platform: %s", platform)
		}
		if !p.Accepts(filename) {
			return fmt.Errorf("invalid file extension for %s: %s", p.Name, ext)
		}
	} else if !model.AcceptsAny(filename) {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	if isArchive(ext) {
		return inspectArchive(ext, data)
	}
	return nil
}

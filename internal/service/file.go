package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retrocade/retrocade/internal/model"
	"github.com/retrocade/retrocade/internal/repository"
	"github.com/retrocade/retrocade/internal/storage"
	"github.com/retrocade/retrocade/internal/validation"
)

var ErrFileInvalid = errors.New("invalid file")

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
	strict   bool
}

// NewFileService stores any non-empty upload. With strict set, uploads that
// fail the cover type, platform extension or archive checks are rejected
// instead of logged.
func NewFileService(fileRepo repository.FileRepository, storage storage.Storage, strict bool) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
		strict:   strict,
	}
}

// UploadInput is a fully buffered upload body.
type UploadInput struct {
	Kind     string // model.FileKindRom or model.FileKindCover
	Filename string
	Platform string // optional, checked against the platform table
	Data     []byte
}

// Upload checks the payload, writes it to storage and records its metadata
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*model.File, error) {
	filename := strings.TrimSpace(filepath.Base(in.Filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, fmt.Errorf("%w: filename is required", ErrFileInvalid)
	}

	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrFileInvalid, validation.ErrEmptyFile)
	}

	var (
		mimeType string
		checkErr error
	)
	switch in.Kind {
	case model.FileKindCover:
		mimeType = validation.CoverMimeType(in.Data)
		checkErr = validation.CheckCover(filename, in.Data)
	case model.FileKindRom:
		mimeType = validation.RomMimeType(filename)
		checkErr = validation.CheckRom(filename, in.Platform, in.Data)
	default:
		return nil, fmt.Errorf("%w: unknown file kind %q", ErrFileInvalid, in.Kind)
	}
	if checkErr != nil {
		if s.strict {
			return nil, fmt.Errorf("%w: %v", ErrFileInvalid, checkErr)
		}
		slog.Warn("accepting upload that failed checks", "kind", in.Kind, "filename", filename, "platform", in.Platform, "reason", checkErr)
	}

	id := uuid.New().String()
	storagePath := path.Join(in.Kind+"s", id+strings.ToLower(filepath.Ext(filename))) // rom -> roms

	err := s.storage.Save(ctx, storagePath, bytes.NewReader(in.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	file := &model.File{
		ID:          id,
		Kind:        in.Kind,
		Filename:    filename,
		MimeType:    mimeType,
		Size:        int64(len(in.Data)),
		StoragePath: storagePath,
		CreatedAt:   time.Now(),
	}

	err = s.fileRepo.Create(file)
	if err != nil {
		// If DB insert fails, try to cleanup the uploaded file
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	slog.Info("file uploaded", "id", file.ID, "kind", file.Kind, "filename", file.Filename, "size", file.Size)
	return file, nil
}

// ByID returns file metadata
func (s *FileService) ByID(id string) (*model.File, error) {
	return s.fileRepo.ByID(id)
}

// Open returns the metadata and payload of a stored file; the caller closes the reader
func (s *FileService) Open(ctx context.Context, id string) (*model.File, io.ReadCloser, error) {
	file, err := s.fileRepo.ByID(id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Open(ctx, file.StoragePath)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Error("file record without stored object", "id", id, "path", file.StoragePath)
		return nil, nil, repository.ErrFileNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, rc, nil
}

// Files lists uploads of one kind, newest first
func (s *FileService) Files(kind string) ([]*model.File, error) {
	return s.fileRepo.Files(kind)
}

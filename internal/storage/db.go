package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DBStorage keeps objects base64-encoded in the blobs table
type DBStorage struct {
	db *sqlx.DB
}

func NewDBStorage(db *sqlx.DB) *DBStorage {
	return &DBStorage{db: db}
}

func (s *DBStorage) Save(ctx context.Context, path string, r io.Reader) error {
	var buf bytes.Buffer
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	_, err := io.Copy(enc, r)
	if err != nil {
		return fmt.Errorf("failed to encode blob: %w", err)
	}
	err = enc.Close()
	if err != nil {
		return fmt.Errorf("failed to encode blob: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM blobs WHERE path = $1`, path)
	if err != nil {
		return fmt.Errorf("failed to replace blob: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO blobs (path, data) VALUES ($1, $2)`, path, buf.String())
	if err != nil {
		return fmt.Errorf("failed to insert blob: %w", err)
	}

	return nil
}

func (s *DBStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	var data string
	err := s.db.GetContext(ctx, &data, `SELECT data FROM blobs WHERE path = $1`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return io.NopCloser(base64.NewDecoder(base64.StdEncoding, strings.NewReader(data))), nil
}

func (s *DBStorage) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE path = $1`, path)
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

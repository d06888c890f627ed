package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retrocade/retrocade/internal/model"
	"github.com/retrocade/retrocade/internal/repository"
	"github.com/retrocade/retrocade/internal/validation"
)

var ErrSaveInvalid = errors.New("invalid save")

// SaveService keeps one emulator save state per game id; a new save replaces the previous one.
type SaveService struct {
	repo repository.SaveRepository
}

func NewSaveService(repo repository.SaveRepository) *SaveService {
	return &SaveService{repo: repo}
}

func (s *SaveService) Create(gameID, saveData string) (*model.SaveState, error) {
	gameID = strings.TrimSpace(gameID)
	if err := validation.ValidateRequired("gameId", gameID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveInvalid, err)
	}
	if err := validation.ValidateRequired("saveData", saveData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveInvalid, err)
	}

	save := &model.SaveState{
		ID:        uuid.New().String(),
		GameID:    gameID,
		SaveData:  saveData,
		CreatedAt: time.Now(),
	}

	err := s.repo.Replace(save)
	if err != nil {
		return nil, fmt.Errorf("failed to store save: %w", err)
	}

	return save, nil
}

func (s *SaveService) Latest(gameID string) (*model.SaveState, error) {
	return s.repo.Latest(gameID)
}

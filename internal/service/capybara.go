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

var ErrCapybaraInvalid = errors.New("invalid capybara")

type CapybaraService struct {
	repo repository.CapybaraRepository
}

func NewCapybaraService(repo repository.CapybaraRepository) *CapybaraService {
	return &CapybaraService{repo: repo}
}

type CapybaraInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Location    *string `json:"location"`
}

func (s *CapybaraService) Create(in CapybaraInput) (*model.Capybara, error) {
	if err := validation.ValidateRequired("name", in.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapybaraInvalid, err)
	}
	if err := validation.ValidateRequired("imageUrl", in.ImageURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapybaraInvalid, err)
	}

	capybara := &model.Capybara{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Location:    in.Location,
		CreatedAt:   time.Now(),
	}

	err := s.repo.Create(capybara)
	if err != nil {
		return nil, fmt.Errorf("failed to create capybara: %w", err)
	}
	return capybara, nil
}

func (s *CapybaraService) Capybaras() ([]*model.Capybara, error) {
	return s.repo.Capybaras()
}

// Delete removes a capybara and reports whether it existed
func (s *CapybaraService) Delete(id string) (bool, error) {
	err := s.repo.Delete(id)
	if errors.Is(err, repository.ErrCapybaraNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete capybara: %w", err)
	}
	return true, nil
}

package service

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retrocade/retrocade/internal/model"
	"github.com/retrocade/retrocade/internal/repository"
	"github.com/retrocade/retrocade/internal/validation"
)

var ErrGameInvalid = errors.New("invalid game")

const internalFilePrefix = "/api/files/"

type GameService struct {
	repo     repository.GameRepository
	fileRepo repository.FileRepository
	proxy    *RomProxy
	dataPath string
}

func NewGameService(repo repository.GameRepository, fileRepo repository.FileRepository, proxy *RomProxy, emulatorDataPath string) *GameService {
	return &GameService{
		repo:     repo,
		fileRepo: fileRepo,
		proxy:    proxy,
		dataPath: emulatorDataPath,
	}
}

type GameInput struct {
	Title string `json:"title"`
	Cover string `json:"cover"`
	Rom   string `json:"rom"`
	Core  string `json:"core"`
}

func (s *GameService) Create(in GameInput) (*model.Game, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Cover = strings.TrimSpace(in.Cover)
	in.Rom = strings.TrimSpace(in.Rom)
	in.Core = strings.TrimSpace(in.Core)

	for _, field := range []struct{ name, value string }{
		{"title", in.Title},
		{"cover", in.Cover},
		{"rom", in.Rom},
	} {
		err := validation.ValidateRequired(field.name, field.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGameInvalid, err)
		}
	}

	if in.Core == "" {
		in.Core = model.DefaultCore
	}

	game := &model.Game{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Core:      in.Core,
		Cover:     in.Cover,
		Rom:       in.Rom,
		CreatedAt: time.Now(),
	}

	err := s.repo.Create(game)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

func (s *GameService) Games() ([]*model.Game, error) {
	return s.repo.Games()
}

func (s *GameService) ByID(id string) (*model.Game, error) {
	return s.repo.ByID(id)
}

// Delete removes a game and reports whether it existed
func (s *GameService) Delete(id string) (bool, error) {
	err := s.repo.Delete(id)
	if errors.Is(err, repository.ErrGameNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete game: %w", err)
	}
	return true, nil
}

// Launch builds the emulator widget settings for a game. External ROMs on the
// proxy allow-list are routed through /api/rom so the browser avoids CORS.
func (s *GameService) Launch(id string) (*model.Launch, error) {
	game, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	gameURL := game.Rom
	if !strings.HasPrefix(game.Rom, "/") && s.proxy != nil && s.proxy.Allowed(game.Rom) {
		gameURL = "/api/rom?url=" + url.QueryEscape(game.Rom)
	}

	return &model.Launch{
		Player:    "#game",
		Core:      game.Core,
		GameURL:   gameURL,
		GameID:    game.Core + "-" + s.romFilename(game.Rom),
		DataPath:  s.dataPath,
		LoaderURL: strings.TrimSuffix(s.dataPath, "/") + "/loader.js",
	}, nil
}

// romFilename resolves the original filename of an uploaded ROM, or the last
// path segment of an external one.
func (s *GameService) romFilename(rom string) string {
	if id, ok := strings.CutPrefix(rom, internalFilePrefix); ok {
		file, err := s.fileRepo.ByID(id)
		if err == nil {
			return file.Filename
		}
		return id
	}

	u, err := url.Parse(rom)
	if err != nil || u.Path == "" {
		return rom
	}
	return path.Base(u.Path)
}

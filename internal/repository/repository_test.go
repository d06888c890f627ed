package repository

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/retrocade/retrocade/internal/db"
	"github.com/retrocade/retrocade/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := db.RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestGameRepository(t *testing.T) {
	repo := NewGameRepository(newTestDB(t))

	game := &model.Game{
		ID:        uuid.New().String(),
		Title:     "Chrono Trigger",
		Core:      "snes",
		Cover:     "/api/files/cover",
		Rom:       "/api/files/rom",
		CreatedAt: time.Now(),
	}
	if err := repo.Create(game); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ByID(game.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got.Title != game.Title || got.Core != "snes" || got.Rom != game.Rom {
		t.Errorf("by id: got %+v", got)
	}

	games, err := repo.Games()
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("games: got %d, want 1", len(games))
	}

	if err := repo.Delete(game.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(game.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second delete: got %v, want ErrGameNotFound", err)
	}
	if _, err := repo.ByID(game.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("by id after delete: got %v", err)
	}

	games, err = repo.Games()
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	if games == nil || len(games) != 0 {
		t.Errorf("games after delete: got %v, want empty slice", games)
	}
}

func countSaves(t *testing.T, database *sqlx.DB, gameID string) int {
	t.Helper()
	var n int
	if err := database.Get(&n, `SELECT COUNT(*) FROM saves WHERE game_id = $1`, gameID); err != nil {
		t.Fatalf("count saves: %v", err)
	}
	return n
}

func TestSaveRepositoryReplace(t *testing.T) {
	database := newTestDB(t)
	repo := NewSaveRepository(database)

	first := &model.SaveState{ID: uuid.New().String(), GameID: "snes-ct.sfc", SaveData: "AAAA", CreatedAt: time.Now()}
	second := &model.SaveState{ID: uuid.New().String(), GameID: "snes-ct.sfc", SaveData: "BBBB", CreatedAt: time.Now().Add(time.Second)}
	other := &model.SaveState{ID: uuid.New().String(), GameID: "n64-mario.z64", SaveData: "CCCC", CreatedAt: time.Now()}

	for _, s := range []*model.SaveState{first, other, second} {
		if err := repo.Replace(s); err != nil {
			t.Fatalf("replace: %v", err)
		}
	}

	if count := countSaves(t, database, "snes-ct.sfc"); count != 1 {
		t.Fatalf("count: got %d, want 1", count)
	}

	latest, err := repo.Latest("snes-ct.sfc")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID || latest.SaveData != "BBBB" {
		t.Errorf("latest: got %+v, want second save", latest)
	}

	if _, err := repo.Latest("n64-mario.z64"); err != nil {
		t.Errorf("other game save should survive: %v", err)
	}
	if _, err := repo.Latest("psp-none.iso"); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("missing save: got %v", err)
	}
}

func TestFileRepository(t *testing.T) {
	repo := NewFileRepository(newTestDB(t))

	file := &model.File{
		ID:          uuid.New().String(),
		Kind:        model.FileKindRom,
		Filename:    "ct.sfc",
		MimeType:    "application/octet-stream",
		Size:        4,
		StoragePath: "roms/abc.sfc",
		CreatedAt:   time.Now(),
	}
	if err := repo.Create(file); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ByID(file.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got.StoragePath != file.StoragePath || got.Size != 4 {
		t.Errorf("by id: got %+v", got)
	}

	roms, err := repo.Files(model.FileKindRom)
	if err != nil || len(roms) != 1 {
		t.Fatalf("files(rom): %v, %d", err, len(roms))
	}
	covers, err := repo.Files(model.FileKindCover)
	if err != nil || len(covers) != 0 {
		t.Fatalf("files(cover): %v, %d", err, len(covers))
	}

	if err := repo.Delete(file.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.ByID(file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("by id after delete: got %v", err)
	}
}

func TestCapybaraRepository(t *testing.T) {
	repo := NewCapybaraRepository(newTestDB(t))

	location := "Pantanal"
	c := &model.Capybara{
		ID:        uuid.New().String(),
		Name:      "Capi",
		ImageURL:  "https://example.com/capi.jpg",
		Location:  &location,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.Capybaras()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Description != nil || list[0].Location == nil || *list[0].Location != location {
		t.Fatalf("list: got %+v", list)
	}

	if err := repo.Delete(c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(c.ID); !errors.Is(err, ErrCapybaraNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestMemoryTokenRepository(t *testing.T) {
	repo := NewMemoryTokenRepository(2, time.Hour)

	tok := func(v string) *model.Token {
		return &model.Token{Value: v, IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	}

	if err := repo.Create(tok("a")); err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, _ := repo.Exists("a")
	if !ok {
		t.Fatal("token a should exist")
	}

	// Capacity 2: adding two more evicts the oldest
	_ = repo.Create(tok("b"))
	_ = repo.Create(tok("c"))
	if ok, _ := repo.Exists("a"); ok {
		t.Error("token a should have been evicted")
	}

	_ = repo.Delete("b")
	if ok, _ := repo.Exists("b"); ok {
		t.Error("token b should be gone after delete")
	}

	expired := &model.Token{Value: "old", IssuedAt: time.Now().Add(-2 * time.Hour), ExpiresAt: time.Now().Add(-time.Hour)}
	if err := repo.Create(expired); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired create: got %v", err)
	}
}

func TestMemoryTokenRepositoryTTL(t *testing.T) {
	repo := NewMemoryTokenRepository(10, 50*time.Millisecond)
	_ = repo.Create(&model.Token{Value: "short", IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)})

	time.Sleep(150 * time.Millisecond)
	if ok, _ := repo.Exists("short"); ok {
		t.Error("token should expire with the store ttl")
	}
}

func TestSaveRepositoryConcurrentReplace(t *testing.T) {
	database := newTestDB(t)
	repo := NewSaveRepository(database)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Replace(&model.SaveState{
				ID:        uuid.New().String(),
				GameID:    "snes-ct.sfc",
				SaveData:  fmt.Sprintf("save-%d", i),
				CreatedAt: time.Now(),
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("replace: %v", err)
		}
	}
	if count := countSaves(t, database, "snes-ct.sfc"); count != 1 {
		t.Errorf("count: got %d, want 1", count)
	}
}

func TestSavesUniquePerGame(t *testing.T) {
	database := newTestDB(t)
	insert := `INSERT INTO saves (id, game_id, save_data, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := database.Exec(insert, uuid.New().String(), "snes-ct.sfc", "AAAA", time.Now()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := database.Exec(insert, uuid.New().String(), "snes-ct.sfc", "BBBB", time.Now()); err == nil {
		t.Error("second save row for one game should violate the unique index")
	}
}

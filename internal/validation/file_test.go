package validation

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func buildZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		_, _ = w.Write([]byte("rom data"))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestCheckCover(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		wantMime string
		wantErr  bool
	}{
		{"png", "cover.png", pngHeader, "image/png", false},
		{"jpeg", "cover.JPG", []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), "image/jpeg", false},
		{"gif", "cover.gif", []byte("GIF89a...."), "image/gif", false},
		{"bmp", "cover.bmp", []byte("BM\x00\x00\x00\x00"), "image/bmp", true},
		{"text disguised as png", "cover.png", []byte("hello world"), "text/plain; charset=utf-8", true},
		{"png with bad extension", "cover.exe", pngHeader, "image/png", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoverMimeType(tt.data); got != tt.wantMime {
				t.Errorf("mime = %q, want %q", got, tt.wantMime)
			}
			err := CheckCover(tt.filename, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := CheckCover("cover.png", nil); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty cover: got %v", err)
	}
}

func TestRomMimeType(t *testing.T) {
	if got := RomMimeType("rom"); got != "application/octet-stream" {
		t.Errorf("no extension: got %q", got)
	}
	// System mime tables vary; only the fallback is fixed
	for _, name := range []string{"pokemon.gba", "ct.ZIP", "game.sfc"} {
		if got := RomMimeType(name); got == "" {
			t.Errorf("%s: empty mime type", name)
		}
	}
}

func TestCheckRom(t *testing.T) {
	if err := CheckRom("game.sfc", "snes", []byte{1, 2, 3}); err != nil {
		t.Errorf("plain sfc: %v", err)
	}
	if err := CheckRom("game.iso", "snes", []byte{1, 2, 3}); err == nil {
		t.Error("iso should be rejected for snes")
	}
	if err := CheckRom("game.iso", "", []byte{1, 2, 3}); err != nil {
		t.Errorf("iso without platform should match psp: %v", err)
	}
	if err := CheckRom("game.sfc", "gameboy", []byte{1}); err == nil {
		t.Error("unknown platform should be rejected")
	}
	if err := CheckRom("game.sfc", "snes", nil); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty rom: got %v", err)
	}
}

func TestCheckRomArchives(t *testing.T) {
	good := buildZip(t, "Chrono Trigger (USA).sfc")
	if err := CheckRom("ct.zip", "snes", good); err != nil {
		t.Fatalf("zip: %v", err)
	}

	dirsOnly := buildZip(t, "folder/")
	if err := CheckRom("empty.zip", "snes", dirsOnly); !errors.Is(err, ErrEmptyArchive) {
		t.Errorf("dir-only zip: got %v, want ErrEmptyArchive", err)
	}

	if err := CheckRom("broken.zip", "snes", []byte("not a zip")); err == nil {
		t.Error("corrupt zip should be rejected")
	}
	if err := CheckRom("broken.7z", "snes", []byte("not a 7z archive")); err == nil {
		t.Error("corrupt 7z should be rejected")
	}
	if err := CheckRom("broken.rar", "snes", []byte("not a rar archive")); err == nil {
		t.Error("corrupt rar should be rejected")
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("title", "  "); err == nil {
		t.Error("blank title should fail")
	}
	if err := ValidateRequired("title", "Zelda"); err != nil {
		t.Errorf("title: %v", err)
	}
}

package model

import (
	"path/filepath"
	"slices"
	"strings"
)

type Platform struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// Platforms lists the emulator cores offered by the admin form.
var Platforms = []Platform{
	{ID: "snes", Name: "Super Nintendo", Extensions: []string{".zip", ".7z", ".rar", ".sfc", ".smc"}},
	{ID: "n64", Name: "Nintendo 64", Extensions: []string{".zip", ".7z", ".rar", ".z64", ".n64", ".v64"}},
	{ID: "psp", Name: "PSP", Extensions: []string{".iso", ".cso", ".zip", ".7z"}},
}

func PlatformByID(id string) (Platform, bool) {
	for _, p := range Platforms {
		if p.ID == id {
			return p, true
		}
	}
	return Platform{}, false
}

// Accepts reports whether filename has an extension the platform loads.
func (p Platform) Accepts(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(p.Extensions, ext)
}

// AcceptsAny reports whether any known platform loads filename.
func AcceptsAny(filename string) bool {
	for _, p := range Platforms {
		if p.Accepts(filename) {
			return true
		}
	}
	return false
}

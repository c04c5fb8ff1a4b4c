package main

import (
	"os"
	"strings"
)

const maxRecentFiles = 10

// recent files helpers
func recentFiles(state *uiState) []string {
	if state == nil || state.app == nil {
		return nil
	}
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	if state == nil || state.app == nil {
		return
	}
	filtered := []string{path}
	for _, f := range recentFiles(state) {
		if f != path && len(filtered) < maxRecentFiles {
			filtered = append(filtered, f)
		}
	}
	state.app.Preferences().SetString("recentFiles", strings.Join(filtered, "\n"))
	buildMenus(state)
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastDir", state.lastDir)
	prefs.SetBool("darkTheme", state.darkMode)
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	state.lastDir = prefs.StringWithFallback("lastDir", "")
	if state.lastDir != "" {
		if _, err := os.Stat(state.lastDir); err != nil {
			state.lastDir = ""
		}
	}
	state.darkMode = prefs.BoolWithFallback("darkTheme", true)
}

package uihelpers

import (
	"path/filepath"
)

// SidebarWidth is the fixed width of the button column left of the plots.
const SidebarWidth = 150

// ComputePanelHeight returns the height every stacked plot panel gets for a
// window of winH pixels: a quarter of the window, never below 100.
func ComputePanelHeight(winH float32) int {
	h := int(winH * 0.25)
	if h < 100 {
		h = 100
	}
	return h
}

// ComputePanelWidth derives the panel width from the window width minus the
// sidebar and a small margin for the scrollbar. Clamped to at least 320.
func ComputePanelWidth(winW float32) int {
	w := int(winW) - SidebarWidth - 24
	if w < 320 {
		w = 320
	}
	return w
}

// ComputePanelDimensions combines ComputePanelWidth and ComputePanelHeight.
func ComputePanelDimensions(winW, winH float32) (int, int) {
	return ComputePanelWidth(winW), ComputePanelHeight(winH)
}

// ComputePreviewColumnWidths splits the preview table width over n columns.
// Each column gets at least 80 and at most 220 pixels.
func ComputePreviewColumnWidths(tableW float32, n int) []float32 {
	if n <= 0 {
		return nil
	}
	w := tableW / float32(n)
	if w < 80 {
		w = 80
	}
	if w > 220 {
		w = 220
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = w
	}
	return out
}

// TruncatePath shortens p to about n characters, always keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

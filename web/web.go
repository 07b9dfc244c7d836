// Package web embeds the single-page triage UI.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed static
var content embed.FS

// Static returns the UI files. A non-empty dir overrides the embedded copy.
func Static(dir string) (fs.FS, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(content, "static")
}

package vault

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Entry describes one child of a folder.
type Entry struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	IsDir    bool      `json:"is_dir"`
	Size     int64     `json:"size"`
	Mode     string    `json:"mode"`
	Modified time.Time `json:"modified"`
	MimeType string    `json:"mime_type,omitempty"`
}

// ListFolder returns metadata for the immediate children of the folder at
// path. Entry paths are relative to the base directory and use forward
// slashes. MimeType is detected from content for regular files only.
func (v *Vault) ListFolder(path string) (entries []Entry, err error) {
	defer v.observe(OpListFolder, path, time.Now(), &err)

	if err := v.validate(OpListFolder, path); err != nil {
		return nil, err
	}

	folder := v.resolve(path)
	if _, err := requireFolder(OpListFolder, path, folder); err != nil {
		return nil, err
	}

	children, err := os.ReadDir(folder)
	if err != nil {
		return nil, newError(OpListFolder, path, ErrInternal, err)
	}

	entries = make([]Entry, 0, len(children))
	for _, child := range children {
		full := filepath.Join(folder, child.Name())

		info, err := os.Stat(full)
		if err != nil {
			// Broken symlink: fall back to the link itself.
			if info, err = child.Info(); err != nil {
				continue
			}
		}

		entry := Entry{
			Name:     child.Name(),
			Path:     v.Rel(full),
			IsDir:    info.IsDir(),
			Size:     info.Size(),
			Mode:     info.Mode().String(),
			Modified: info.ModTime(),
		}
		if info.Mode().IsRegular() {
			mtype, err := mimetype.DetectFile(full)
			if err != nil {
				v.logger.Debug("mime detection failed", zap.String("path", full), zap.Error(err))
			} else {
				entry.MimeType = mtype.String()
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Rel converts a resolved path back to a slash-separated path relative
// to the base directory.
func (v *Vault) Rel(resolved string) string {
	rel, err := filepath.Rel(v.base, resolved)
	if err != nil {
		return filepath.ToSlash(resolved)
	}
	return filepath.ToSlash(rel)
}

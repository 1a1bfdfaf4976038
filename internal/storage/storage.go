// Package storage persists uploaded files (avatars, food images) outside the
// database. Paths returned by Save are what the models store and what the
// /media/ route serves.
package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/awu/foodlog/internal/models"
)

// ErrProtectedPath is returned when a caller tries to delete the shared
// default avatar.
var ErrProtectedPath = errors.New("storage: refusing to delete protected path")

type Store interface {
	// Save writes the file and returns the path to persist on the model.
	// filename is only used for its extension.
	Save(filename string, r io.Reader) (string, error)
	// Delete removes a previously saved file. Deleting the default avatar
	// fails with ErrProtectedPath.
	Delete(path string) error
}

// Disk stores files under a media directory with generated names.
type Disk struct {
	Dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{Dir: dir}, nil
}

func (d *Disk) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

func (d *Disk) Delete(path string) error {
	if path == "" {
		return nil
	}
	if path == models.DefaultAvatar {
		return ErrProtectedPath
	}
	// Stored paths are bare generated names; reject traversal attempts.
	if filepath.Base(path) != path {
		return ErrProtectedPath
	}
	return os.Remove(filepath.Join(d.Dir, path))
}

package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store writes pictures below Root. Names returned by SavePicture are
// slash-separated and relative to Root, which is also what gets persisted on
// the contact and served under /media.
type Store struct {
	Root string
	now  func() time.Time
}

func NewStore(root string) *Store {
	return &Store{Root: root, now: time.Now}
}

// SavePicture validates data as an image and writes it to
// picture/YYYY/MM/<uuid><ext>. The uploaded filename only shows up in errors.
func (s *Store) SavePicture(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, ext, err := DetectImage(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filename, err)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	t := now()
	name := path.Join("picture", t.Format("2006"), t.Format("01"), uuid.NewString()+ext)

	full := filepath.Join(s.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create picture dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write picture: %w", err)
	}
	return name, nil
}

// Remove deletes a stored picture. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"wisatara.id/internal/ids"
)

// Uploads stores section images on the local filesystem. Paths returned are
// relative to the upload root so they survive a move of the directory.
type Uploads struct {
	dir string
}

// NewUploads returns a store rooted at dir. The directory is created lazily
// on first write.
func NewUploads(dir string) *Uploads {
	return &Uploads{dir: dir}
}

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Save writes the image under a generated name, keyed by organization, and
// returns the relative path. The original filename only contributes its
// extension.
func (u *Uploads) Save(organizationID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrInvalidInput, ext)
	}
	dir := filepath.Join(u.dir, organizationID)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := ids.New() + ext
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	return filepath.ToSlash(filepath.Join(organizationID, name)), nil
}

// Open reads back a previously saved image.
func (u *Uploads) Open(relPath string) (io.ReadCloser, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(u.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes a stored image; missing files are not an error.
func (u *Uploads) Remove(relPath string) error {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(u.dir, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

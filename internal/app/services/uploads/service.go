package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yourempire/platform/pkg/logger"
)

// MaxSize is the upload size ceiling.
const MaxSize = 5 << 20 // 5 MB

// ErrUnsupportedType reports a file extension outside the allow-list.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrTooLarge reports a payload over MaxSize.
var ErrTooLarge = errors.New("file too large")

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".pdf":  {},
	".mp4":  {},
	".webm": {},
}

// Storage accepts binary payloads keyed by opaque identifiers. Contents are
// never inspected beyond the extension allow-list and size ceiling.
type Storage interface {
	Save(name string, r io.Reader) (key string, err error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}

// DiskStorage keeps uploads on the local filesystem under a single
// directory, each file named by a generated opaque key.
type DiskStorage struct {
	dir string
	log *logger.Logger
}

var _ Storage = (*DiskStorage)(nil)

// NewDiskStorage constructs local-disk upload storage rooted at dir.
func NewDiskStorage(dir string, log *logger.Logger) (*DiskStorage, error) {
	if log == nil {
		log = logger.NewDefault("uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &DiskStorage{dir: dir, log: log}, nil
}

// Save validates the extension and size and writes the payload, returning
// the opaque key for later retrieval.
func (d *DiskStorage) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("extension %q: %w", ext, ErrUnsupportedType)
	}

	key := uuid.NewString() + ext
	path := filepath.Join(d.dir, key)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	// Read one byte past the ceiling so oversized payloads are detected
	// without buffering the whole stream.
	written, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if written > MaxSize {
		os.Remove(path)
		return "", fmt.Errorf("%s exceeds %d bytes: %w", name, int64(MaxSize), ErrTooLarge)
	}

	d.log.WithField("key", key).WithField("bytes", written).Info("upload stored")
	return key, nil
}

// Open returns the stored payload for key.
func (d *DiskStorage) Open(key string) (io.ReadCloser, error) {
	clean := filepath.Base(key) // no path traversal through keys
	return os.Open(filepath.Join(d.dir, clean))
}

// Remove deletes the stored payload for key.
func (d *DiskStorage) Remove(key string) error {
	clean := filepath.Base(key)
	return os.Remove(filepath.Join(d.dir, clean))
}

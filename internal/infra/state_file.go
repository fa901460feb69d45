package infra

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/multierr"

	"github.com/Vovarama1992/deskmate/internal/models"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

const (
	StateFileName = "state.json"
	EmptyState    = "{}"
)

type FileStateStore struct {
	dirs ports.AppDirResolver
}

func NewFileStateStore(dirs ports.AppDirResolver) *FileStateStore {
	return &FileStateStore{dirs: dirs}
}

// Path returns <app data dir>/state.json.
func (s *FileStateStore) Path() (string, error) {
	dir, err := s.dirs.AppDataDir()
	if err != nil {
		return "", models.NewCommandError(models.KindPathResolution, err)
	}
	return filepath.Join(dir, StateFileName), nil
}

func (s *FileStateStore) Read(ctx context.Context) (string, error) {
	path, err := s.Path()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return EmptyState, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &models.CommandError{Kind: models.KindIORead, Err: err, Path: path}
	}

	if !utf8.Valid(data) {
		return "", &models.CommandError{
			Kind: models.KindIORead,
			Err:  errors.New("stream did not contain valid UTF-8"),
			Path: path,
		}
	}

	return string(data), nil
}

// Write replaces the state file through a temp file in the same directory,
// so a concurrent Read sees either the old or the new contents.
func (s *FileStateStore) Write(ctx context.Context, contents string) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &models.CommandError{Kind: models.KindIOCreateDir, Err: err, Path: dir}
	}

	if err := writeAtomic(dir, path, []byte(contents)); err != nil {
		return &models.CommandError{Kind: models.KindIOWrite, Err: err, Path: path}
	}

	return nil
}

func writeAtomic(dir, path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, "."+StateFileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreNotExist(os.Remove(tmpName)))
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return multierr.Append(err, tmp.Close())
	}
	if err = tmp.Sync(); err != nil {
		return multierr.Append(err, tmp.Close())
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

func ignoreNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

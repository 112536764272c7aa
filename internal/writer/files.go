package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is one complete output file.
type File struct {
	// Name is the file name relative to the destination directory.
	Name string
	Data []byte
}

// ExistsError reports an output target that already exists while overwrite
// is disabled.
type ExistsError struct {
	Path string
}

// Error implements the error interface.
func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s already exists (use overwrite to replace it)", e.Path)
}

// IsExistsError returns true if err is, or wraps, an *ExistsError.
func IsExistsError(err error) bool {
	var ee *ExistsError
	return errors.As(err, &ee)
}

// WriteAll writes files into dir, creating dir when missing. Every target is
// checked before the first write, so an existing file aborts the run with
// nothing written. Each file is written to a temporary file and renamed into
// place. On failure the files this call created are removed again and the
// files it replaced get their previous content back.
// It returns the written paths in order.
func WriteAll(dir string, files []File, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	paths := make([]string, len(files))
	backups := make([]*backup, len(files))
	existed := make([]bool, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dir, f.Name)
		info, err := os.Stat(paths[i])
		switch {
		case err == nil:
			if !overwrite {
				return nil, &ExistsError{Path: paths[i]}
			}
			existed[i] = true
			if info.Mode().IsRegular() {
				data, err := os.ReadFile(paths[i])
				if err != nil {
					return nil, fmt.Errorf("read %s: %w", paths[i], err)
				}
				backups[i] = &backup{data: data, mode: info.Mode().Perm()}
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("stat %s: %w", paths[i], err)
		}
	}

	for i, f := range files {
		if err := writeFile(paths[i], f.Data, 0o644); err != nil {
			var errs []error
			for j := 0; j < i; j++ {
				switch {
				case !existed[j]:
					os.Remove(paths[j])
				case backups[j] != nil:
					if rerr := writeFile(paths[j], backups[j].data, backups[j].mode); rerr != nil {
						errs = append(errs, fmt.Errorf("restore: %w", rerr))
					}
				}
			}
			return nil, errors.Join(append([]error{err}, errs...)...)
		}
	}
	return paths, nil
}

// backup is the content of a target replaced by WriteAll.
type backup struct {
	data []byte
	mode fs.FileMode
}

func writeFile(path string, data []byte, mode fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ClearDir removes the regular files directly inside dir. Directories and
// other entries are left alone. A missing dir is not an error.
func ClearDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var removed []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.Remove(p); err != nil {
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}

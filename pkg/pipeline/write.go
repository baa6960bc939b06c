package pipeline

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/figpanel/pkg/errors"
)

// WriteFile writes data to path atomically: the bytes go to a temporary file
// in the same directory, which is then renamed over path.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "create %s", path)
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrCodeWrite, err, "chmod %s", path)
	}
	if err := os.Rename(name, path); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrCodeWrite, err, "rename to %s", path)
	}
	return nil
}

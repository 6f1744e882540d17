package toolpath

import (
	"errors"
	"io/fs"
	"os"

	"github.com/goplus/recipe/internal/msg"
)

// HostProber probes the local filesystem. Directories never match.
type HostProber struct{}

func (HostProber) Probe(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			msg.Debug("probe %s: not found", path)
			return false, nil
		}
		return false, err
	}
	if fi.IsDir() {
		msg.Debug("probe %s: is a directory", path)
		return false, nil
	}
	if err := checkExecutable(path); err != nil {
		// existence is what counts; the generator reports the exec failure
		msg.Warn("%s exists but is not executable: %v", path, err)
	}
	return true, nil
}

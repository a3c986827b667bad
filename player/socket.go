package player

import (
	"errors"
	"io/fs"
	"net"
	"path/filepath"
	"time"

	"github.com/mafilu-cli/mafilu/filesystem"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/spf13/afero"
)

const (
	socketPattern    = "mpv-*.sock"
	staleDialTimeout = 200 * time.Millisecond
)

// RemoveStaleSockets deletes engine sockets in dir that nothing listens on,
// leaving those of engines still running in other processes alone. It
// returns how many were removed.
func RemoveStaleSockets(dir string) (int, error) {
	matches, err := afero.Glob(filesystem.API(), filepath.Join(dir, socketPattern))
	if err != nil {
		return 0, err
	}

	var removed int
	for _, path := range matches {
		if socketAlive(path) {
			continue
		}
		if err := filesystem.API().Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("removing stale socket %s: %v", path, err)
			continue
		}
		removed++
	}
	return removed, nil
}

func socketAlive(path string) bool {
	conn, err := net.DialTimeout("unix", path, staleDialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Package where resolves the directories and files mafilu reads and writes.
package where

import (
	"os"
	"path/filepath"

	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "MAFILU_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory: $MAFILU_CONFIG_PATH if set, otherwise
// the platform user config dir (XDG_CONFIG_HOME on Linux).
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Mafilu))
}

// State holds data the player writes during playback.
func State() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Mafilu))
}

// Logs is the directory for daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Resume is the file backing the file resume storage.
func Resume() string {
	return filepath.Join(State(), "resume.json")
}

// Temp is a scratch directory for engine IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Mafilu))
}

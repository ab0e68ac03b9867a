package resolvelog

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "script-resolver"

// defaultLogsDir resolves the per-platform log directory:
// macOS under Library/Logs, Windows under the application data dir, and a
// dotfile directory elsewhere. The directory is created lazily at consumer
// start, not here.
func defaultLogsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", appDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName, "log")
		}
		return filepath.Join(home, appDirName, "log")
	default:
		return filepath.Join(home, "."+appDirName, "log")
	}
}

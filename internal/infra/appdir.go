package infra

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Vovarama1992/deskmate/internal/ports"
)

// OSAppDirResolver resolves the per-user application data directory
// the same way the desktop shell does: XDG data home on Linux,
// Application Support on macOS, %AppData% on Windows.
type OSAppDirResolver struct {
	appID    string
	override string

	goos    string
	homeDir func() (string, error)
	confDir func() (string, error)
	getenv  func(string) string
}

func NewOSAppDirResolver(appID, override string) ports.AppDirResolver {
	return &OSAppDirResolver{
		appID:    appID,
		override: override,
		goos:     runtime.GOOS,
		homeDir:  os.UserHomeDir,
		confDir:  os.UserConfigDir,
		getenv:   os.Getenv,
	}
}

func (r *OSAppDirResolver) AppDataDir() (string, error) {
	if r.override != "" {
		return filepath.Clean(r.override), nil
	}

	if r.appID == "" {
		return "", errors.New("app id is empty")
	}

	base, err := r.dataHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(base, r.appID), nil
}

func (r *OSAppDirResolver) dataHome() (string, error) {
	switch r.goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if xdg := r.getenv("XDG_DATA_HOME"); xdg != "" && filepath.IsAbs(xdg) {
			return xdg, nil
		}
		home, err := r.homeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		return filepath.Join(home, ".local", "share"), nil

	case "darwin", "windows":
		dir, err := r.confDir()
		if err != nil {
			return "", fmt.Errorf("user config dir: %w", err)
		}
		return dir, nil
	}

	return "", fmt.Errorf("unsupported platform %q", r.goos)
}

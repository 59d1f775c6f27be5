// Package browser opens a game's store page in the system browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/gamesearch/internal/config"
	"github.com/pders01/gamesearch/internal/validation"
)

type Launcher struct {
	opener   string
	storeURL string

	// start runs the opener detached; replaced in tests
	start func(name string, args ...string) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	opener := strings.TrimSpace(cfg.Browser.Opener)
	if opener == "" {
		opener = defaultOpener()
	}
	return &Launcher{
		opener:   opener,
		storeURL: cfg.Browser.StoreURL,
		start:    startDetached,
	}
}

func (l *Launcher) Opener() string { return l.opener }

// StorePageURL returns the store page of appID.
func (l *Launcher) StorePageURL(appID string) (string, error) {
	return validation.StoreURL(l.storeURL, appID)
}

// OpenStorePage opens the store page of appID.
func (l *Launcher) OpenStorePage(appID string) (string, error) {
	u, err := l.StorePageURL(appID)
	if err != nil {
		return "", err
	}
	return u, l.Open(u)
}

// Open hands url to the configured opener without waiting for it.
func (l *Launcher) Open(url string) error {
	if l.opener == "" {
		return fmt.Errorf("no application found to open URL")
	}

	name, args := l.opener, []string{url}
	if name == "start" {
		// start is a cmd.exe builtin; the empty title keeps quoted URLs intact
		name, args = "cmd", []string{"/c", "start", "", url}
	}

	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

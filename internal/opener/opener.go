// Package opener hands SOP links to the desktop's default handler.
package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrEmptyLink is returned for a blank link; nothing is opened.
var ErrEmptyLink = errors.New("empty link")

// Func opens a link. Commands and the TUI take one so tests can observe
// calls without launching a browser.
type Func func(link string) error

// Open starts the platform opener for link and returns without waiting.
func Open(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return ErrEmptyLink
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", link) //nolint:noctx
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", link) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link) //nolint:noctx
	default:
		return fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", link, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Package browser opens a URL in a browser by trying an ordered list of
// OS-specific commands, then the system default URL handler.
package browser

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	pkgbrowser "github.com/pkg/browser"
)

// ErrNoBrowser is returned when no candidate command and no system
// handler could be started.
var ErrNoBrowser = errors.New("no browser could be started")

// Candidate is one command line that may open the browser.
type Candidate struct {
	// Name is a short label shown in dry-run listings.
	Name string
	// Args is the full argv; Args[0] is the executable.
	Args []string
}

// String renders the command line the way an operator would type it.
func (c Candidate) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " '") {
			a = `"` + a + `"`
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}

// Candidates returns the ordered command list for goos. Anything that is
// neither Windows nor macOS gets the Linux list, which also covers WSL.
func Candidates(goos, url string) []Candidate {
	goos = strings.ToLower(goos)
	switch {
	case strings.Contains(goos, "windows"):
		return WindowsCandidates(url)
	case strings.Contains(goos, "darwin"):
		return DarwinCandidates(url)
	default:
		return LinuxCandidates(url)
	}
}

// Result reports which mechanism opened the browser.
type Result struct {
	Candidate Candidate
	Fallback  bool // true when the system URL handler was used
}

// Launcher starts browser processes. Spawn and Fallback are replaceable
// so callers can observe attempts without launching anything.
type Launcher struct {
	// Spawn starts a process without waiting for it to exit.
	Spawn func(name string, args ...string) error
	// Fallback opens url with the platform default handler.
	Fallback func(url string) error
}

// NewLauncher returns a Launcher that spawns real processes.
func NewLauncher() *Launcher {
	return &Launcher{
		Spawn:    spawnDetached,
		Fallback: openDefault,
	}
}

// Open tries every candidate for goos in order. The first one that starts
// wins; whether the browser actually renders the page is not verified.
func (l *Launcher) Open(goos, url string) (Result, error) {
	var errs []error
	for _, c := range Candidates(goos, url) {
		err := l.Spawn(c.Args[0], c.Args[1:]...)
		if err == nil {
			return Result{Candidate: c}, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
	}

	if l.Fallback != nil {
		err := l.Fallback(url)
		if err == nil {
			return Result{Fallback: true}, nil
		}
		errs = append(errs, fmt.Errorf("system handler: %w", err))
	}

	return Result{}, fmt.Errorf("%w: %w", ErrNoBrowser, errors.Join(errs...))
}

// spawnDetached starts the process and reaps it in the background so the
// caller never blocks on the browser.
func spawnDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openDefault(url string) error {
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
	return pkgbrowser.OpenURL(url)
}

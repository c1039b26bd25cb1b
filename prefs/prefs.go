// Package prefs persists the user preferences of the fin application in a
// small YAML file.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v2"
)

// ErrBlankName is returned when setting an empty user name.
var ErrBlankName = errors.New("user name cannot be blank")

// Prefs are the user preferences.
type Prefs struct {
	UserName string `yaml:"user_name"`
	DarkMode bool   `yaml:"is_dark_mode"`
	FirstRun bool   `yaml:"is_first_run"`
}

// Defaults returns the preferences of a new user.
func Defaults() Prefs { return Prefs{FirstRun: true} }

// HasName reports whether the user went through onboarding.
func (p Prefs) HasName() bool { return strings.TrimSpace(p.UserName) != "" }

// DefaultPath returns the preferences file in the user config directory,
// or in the working directory if there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "fin-prefs.yaml"
	}
	return filepath.Join(dir, "fin", "prefs.yaml")
}

// File is a Prefs bound to the file it is persisted in.
type File struct {
	Prefs
	path string
}

// Load reads the preferences stored in path. A missing file is not an error,
// the defaults are returned instead.
func Load(path string) (*File, error) {
	f := &File{Prefs: Defaults(), path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read preferences %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f.Prefs); err != nil {
		return nil, fmt.Errorf("cannot parse preferences %q: %w", path, err)
	}
	return f, nil
}

// Path returns the file the preferences are persisted in.
func (f *File) Path() string { return f.path }

// Save writes the preferences, creating the parent directory if needed.
func (f *File) Save() error {
	data, err := yaml.Marshal(f.Prefs)
	if err != nil {
		return fmt.Errorf("cannot encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("cannot create preferences directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("cannot write preferences %q: %w", f.path, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("cannot write preferences %q: %w", f.path, err)
	}
	return nil
}

// SetUserName stores the user name and ends the first run.
func (f *File) SetUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}
	f.UserName = name
	f.FirstRun = false
	return f.Save()
}

// SetDarkMode stores the theme choice.
func (f *File) SetDarkMode(dark bool) error {
	f.DarkMode = dark
	return f.Save()
}

// Clear forgets every preference and removes the file.
func (f *File) Clear() error {
	f.Prefs = Defaults()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot remove preferences %q: %w", f.path, err)
	}
	return nil
}

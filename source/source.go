package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sagarc03/tomato"
	"github.com/spf13/afero"
)

// Role tells where a source came from.
type Role int

const (
	RoleDefaults Role = iota
	RoleUser
	RoleOverride
)

func (r Role) String() string {
	switch r {
	case RoleDefaults:
		return "defaults"
	case RoleUser:
		return "user"
	case RoleOverride:
		return "override"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// MarshalText renders the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Source is one configuration file. Sources are loaded in ascending
// Priority; later sources win.
type Source struct {
	Path     string `json:"path"`
	Priority int    `json:"priority"`
	Role     Role   `json:"role"`
}

// Resolver computes the ordered list of configuration files to load.
type Resolver struct {
	// DefaultsFile is resolved against the working directory.
	DefaultsFile string
	// UserFile normally starts with "~".
	UserFile    string
	Provider    OverridePathProvider
	Fs          afero.Fs
	Getwd       func() (string, error)
	UserHomeDir func() (string, error)
	Logger      *slog.Logger
}

// NewResolver returns a Resolver with the standard candidates for app and
// ext ("toml", "yaml" or "json"): ./var/etc/defaults.<ext>, ~/.<app>.<ext>
// and whatever {APP}_ETC_FILE names, directly or through ./.<app>.env.
func NewResolver(app, ext string, fs afero.Fs, environ Environment) *Resolver {
	return &Resolver{
		DefaultsFile: filepath.Join("var", "etc", "defaults."+ext),
		UserFile:     "~/." + app + "." + ext,
		Provider: Chain{
			NewEnvProvider(app, environ),
			NewDotenvProvider(app, fs, environ, os.Getwd),
		},
		Fs:          fs,
		Getwd:       os.Getwd,
		UserHomeDir: os.UserHomeDir,
	}
}

// Resolve returns the sources that exist, in load order. Missing files are
// dropped silently; readability is the loader's concern.
func (r *Resolver) Resolve() ([]Source, error) {
	log := r.logger()

	wd, err := r.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	home, homeErr := r.UserHomeDir()
	if homeErr != nil {
		log.Warn("could not determine home directory, skipping user configuration", "err", homeErr)
		home = ""
	}

	abs := func(p string) string {
		if home == "" {
			if p == "~" || len(p) > 1 && p[0] == '~' && os.IsPathSeparator(p[1]) {
				return ""
			}
		}
		return tomato.AbsPath(p, wd, home)
	}

	type candidate struct {
		path string
		role Role
	}
	candidates := []candidate{{path: abs(r.DefaultsFile), role: RoleDefaults}}
	if home != "" && r.UserFile != "" {
		candidates = append(candidates, candidate{path: abs(r.UserFile), role: RoleUser})
	}

	if r.Provider != nil {
		paths, ok, err := r.Provider.OverridePaths()
		switch {
		case err != nil:
			log.Warn("could not read override paths", "provider", r.Provider.Name(), "err", err)
		case ok:
			for _, p := range paths {
				if a := abs(p); a != "" {
					candidates = append(candidates, candidate{path: a, role: RoleOverride})
				} else {
					log.Warn("skipping override path, home directory unknown", "path", p)
				}
			}
		}
	}

	seen := make(map[string]bool, len(candidates))
	var sources []Source
	for _, c := range candidates {
		if c.path == "" || seen[c.path] {
			continue
		}
		seen[c.path] = true

		exists, err := afero.Exists(r.Fs, c.path)
		if err != nil {
			log.Debug("could not stat configuration file", "path", c.path, "err", err)
			continue
		}
		if !exists {
			log.Debug("configuration file not found", "path", c.path, "role", c.role)
			continue
		}

		sources = append(sources, Source{Path: c.path, Priority: len(sources), Role: c.role})
	}

	return sources, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

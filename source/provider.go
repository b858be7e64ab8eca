package source

//go:generate mockgen -source=provider.go -destination=../mock/provider_mock.go -package=mock

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// OverridePathProvider supplies the highest-priority configuration files.
//
// OverridePaths reports the paths and whether the provider found its
// variable at all. A provider that found the variable set to an empty value
// returns (nil, true, nil).
type OverridePathProvider interface {
	Name() string
	OverridePaths() ([]string, bool, error)
}

// overrideVars is the set of variables read by EnvProvider, without prefix.
type overrideVars struct {
	EtcFile []string `env:"ETC_FILE" envSeparator:";"`
}

// EnvProvider reads {APP}_ETC_FILE from the environment.
type EnvProvider struct {
	Prefix string
	Env    Environment
}

// NewEnvProvider returns an EnvProvider for app, e.g. "tomato" reads
// TOMATO_ETC_FILE.
func NewEnvProvider(app string, environ Environment) *EnvProvider {
	return &EnvProvider{Prefix: EnvPrefix(app), Env: environ}
}

// EnvPrefix is the environment prefix for app: upper case with a trailing
// underscore.
func EnvPrefix(app string) string {
	return strings.ToUpper(app) + "_"
}

func (p *EnvProvider) Name() string { return "env" }

// Key is the full variable name.
func (p *EnvProvider) Key() string { return p.Prefix + "ETC_FILE" }

func (p *EnvProvider) OverridePaths() ([]string, bool, error) {
	if _, ok := p.Env.LookupEnv(p.Key()); !ok {
		return nil, false, nil
	}

	var vars overrideVars
	opts := env.Options{
		Prefix:      p.Prefix,
		Environment: environMap(p.Env),
	}
	if err := env.ParseWithOptions(&vars, opts); err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", p.Key(), err)
	}

	return cleanPaths(vars.EtcFile), true, nil
}

// cleanPaths trims every entry and drops the empty ones.
func cleanPaths(entries []string) []string {
	var out []string
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// DotenvProvider looks for a dotenv file in the working directory and its
// parents. When found, every entry is applied to Env without overriding
// variables that are already set, and the override variable is then read
// through Lookup.
type DotenvProvider struct {
	FileName string
	Fs       afero.Fs
	Env      Environment
	Getwd    func() (string, error)
	Lookup   *EnvProvider
	Logger   *slog.Logger
}

// NewDotenvProvider returns a DotenvProvider for app looking for ".{app}.env".
func NewDotenvProvider(app string, fs afero.Fs, environ Environment, getwd func() (string, error)) *DotenvProvider {
	return &DotenvProvider{
		FileName: "." + app + ".env",
		Fs:       fs,
		Env:      environ,
		Getwd:    getwd,
		Lookup:   NewEnvProvider(app, environ),
	}
}

func (p *DotenvProvider) Name() string { return "dotenv" }

func (p *DotenvProvider) OverridePaths() ([]string, bool, error) {
	dir, err := p.Getwd()
	if err != nil {
		return nil, false, fmt.Errorf("get working directory: %w", err)
	}

	path, ok := FindUp(p.Fs, dir, p.FileName)
	if !ok {
		return nil, false, nil
	}

	if err := p.load(path); err != nil {
		return nil, false, err
	}
	p.logger().Debug("loaded dotenv file", "path", path)

	return p.Lookup.OverridePaths()
}

func (p *DotenvProvider) load(path string) error {
	f, err := p.Fs.Open(path)
	if err != nil {
		return fmt.Errorf("open dotenv file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			p.logger().Warn("failed to close dotenv file", "path", path, "err", closeErr)
		}
	}()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parse dotenv file %s: %w", path, err)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, set := p.Env.LookupEnv(k); set {
			continue
		}
		if err := p.Env.Setenv(k, vars[k]); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

func (p *DotenvProvider) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Chain asks each provider in turn and stops at the first one that reports
// its variable as set.
type Chain []OverridePathProvider

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name()
	}
	return strings.Join(names, ",")
}

func (c Chain) OverridePaths() ([]string, bool, error) {
	for _, p := range c {
		paths, ok, err := p.OverridePaths()
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", p.Name(), err)
		}
		if ok {
			return paths, true, nil
		}
	}
	return nil, false, nil
}

// FindUp returns the first regular file called name in dir or one of its
// parents.
func FindUp(fs afero.Fs, dir, name string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, name)
		if info, err := fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"

	"github.com/sagarc03/tomato"
	"github.com/sagarc03/tomato/codec"
	"github.com/sagarc03/tomato/filesystem"
	"github.com/sagarc03/tomato/loader"
	"github.com/sagarc03/tomato/source"
)

// storeKey is the context key for storing the configuration store.
type storeKey struct{}

// WithContext returns a new context with the store attached.
func WithContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext retrieves the store from context.
// Returns an error if no store is attached.
func FromContext(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(storeKey{}).(*Store)
	if !ok || s == nil {
		return nil, errors.New("config store not found in context")
	}
	return s, nil
}

// Options names the files a Store reads. Zero fields are filled from
// DefaultOptions(AppName).
type Options struct {
	AppName string `validate:"required,excludesall=/\\ "`
	// Format is the extension of the default and user files and the
	// fallback codec for files with an unknown extension.
	Format string `validate:"required,oneof=toml yaml yml json"`
	// DefaultsFile is resolved against the working directory.
	DefaultsFile string `validate:"required"`
	UserFile     string `validate:"required"`
	// StrictDefaults turns a missing or unreadable defaults file into an
	// Init error.
	StrictDefaults bool
}

// DefaultOptions returns the standard layout for app: ./var/etc/defaults.toml
// and ~/.<app>.toml.
func DefaultOptions(app string) Options {
	return Options{
		AppName:      app,
		Format:       "toml",
		DefaultsFile: filepath.Join("var", "etc", "defaults.toml"),
		UserFile:     "~/." + app + ".toml",
	}
}

// withFormat switches the default and user files to extension f.
func (o Options) withFormat(f string) Options {
	o.Format = f
	o.DefaultsFile = strings.TrimSuffix(o.DefaultsFile, filepath.Ext(o.DefaultsFile)) + "." + f
	o.UserFile = strings.TrimSuffix(o.UserFile, filepath.Ext(o.UserFile)) + "." + f
	return o
}

// Option configures the environment a Store runs in.
type Option func(*Store)

// WithFs sets the file system. Defaults to the OS file system.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) { s.fs = fs }
}

// WithEnvironment sets the environment used to find override files.
// Defaults to the process environment.
func WithEnvironment(env source.Environment) Option {
	return func(s *Store) { s.env = env }
}

// WithProvider replaces the env and dotenv override lookup.
func WithProvider(p source.OverridePathProvider) Option {
	return func(s *Store) { s.provider = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithWorkDir sets how the working directory is found.
func WithWorkDir(getwd func() (string, error)) Option {
	return func(s *Store) { s.getwd = getwd }
}

// WithHomeDir sets how the user's home directory is found.
func WithHomeDir(home func() (string, error)) Option {
	return func(s *Store) { s.homeDir = home }
}

// Store holds the merged configuration of one application.
//
// A Store is not safe for concurrent use: Init and Reload must not run while
// other goroutines read from it.
type Store struct {
	opts Options

	fs       afero.Fs
	env      source.Environment
	provider source.OverridePathProvider
	logger   *slog.Logger
	getwd    func() (string, error)
	homeDir  func() (string, error)

	files    *filesystem.Store
	resolver *source.Resolver
	loader   *loader.Loader

	doc     *tomato.Table
	sources []source.Source
}

// New returns an uninitialised Store. Call Init before reading from it.
func New(opts Options, with ...Option) (*Store, error) {
	defaults := DefaultOptions(opts.AppName)
	if opts.Format != "" {
		defaults = defaults.withFormat(opts.Format)
	}
	if err := mergo.Merge(&opts, defaults); err != nil {
		return nil, fmt.Errorf("apply default options: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&opts); err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}

	s := &Store{
		opts:    opts,
		fs:      afero.NewOsFs(),
		env:     source.OSEnvironment{},
		logger:  slog.Default(),
		getwd:   os.Getwd,
		homeDir: os.UserHomeDir,
	}
	for _, o := range with {
		o(s)
	}

	if s.provider == nil {
		dotenv := source.NewDotenvProvider(opts.AppName, s.fs, s.env, s.getwd)
		dotenv.Logger = s.logger
		s.provider = source.Chain{source.NewEnvProvider(opts.AppName, s.env), dotenv}
	}

	s.files = filesystem.New(s.fs)
	s.resolver = &source.Resolver{
		DefaultsFile: opts.DefaultsFile,
		UserFile:     opts.UserFile,
		Provider:     s.provider,
		Fs:           s.fs,
		Getwd:        s.getwd,
		UserHomeDir:  s.homeDir,
		Logger:       s.logger,
	}
	s.loader = &loader.Loader{
		Store:          s.files,
		DefaultExt:     opts.Format,
		StrictDefaults: opts.StrictDefaults,
		Logger:         s.logger,
	}

	return s, nil
}

// Options returns the options the store was built with, defaults applied.
func (s *Store) Options() Options {
	return s.opts
}

// Init resolves and loads the configuration files.
//
// The first call, or any call with reload set, replaces the state with what
// was loaded. Otherwise the loaded document is merged on top of the current
// state, so keys that disappeared from the files are kept.
//
// Finding no files or no data is only a warning.
func (s *Store) Init(reload bool) error {
	sources, err := s.resolver.Resolve()
	if err != nil {
		return fmt.Errorf("resolve configuration files: %w", err)
	}

	if s.opts.StrictDefaults && !slices.ContainsFunc(sources, isDefaults) {
		return fmt.Errorf("load configuration: %w: %s not found", tomato.ErrDefaultsUnavailable, s.opts.DefaultsFile)
	}

	doc, err := s.loader.Load(sources)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	switch {
	case len(sources) == 0:
		s.logger.Warn("no configuration files found, not even the defaults file")
	case doc.Len() == 0:
		s.logger.Warn("no configuration data found in the configuration files", "files", sourcePaths(sources))
	}

	if s.doc == nil || reload {
		s.doc = doc
	} else {
		s.doc = tomato.MergeTables(s.doc, doc)
	}
	s.sources = sources

	s.logger.Debug("configuration loaded", "files", len(sources), "keys", s.doc.Len(), "reload", reload)
	return nil
}

// Reload replaces the state with a fresh load.
func (s *Store) Reload() error {
	return s.Init(true)
}

// Initialized reports whether Init has completed at least once.
func (s *Store) Initialized() bool {
	return s.doc != nil
}

// Document returns a copy of the merged configuration.
func (s *Store) Document() *tomato.Table {
	if s.doc == nil {
		return tomato.NewTable()
	}
	return s.doc.Clone()
}

// Sources returns the files loaded by the last Init, lowest priority first.
func (s *Store) Sources() []source.Source {
	out := make([]source.Source, len(s.sources))
	copy(out, s.sources)
	return out
}

func isDefaults(src source.Source) bool {
	return src.Role == source.RoleDefaults
}

func sourcePaths(sources []source.Source) []string {
	out := make([]string, len(sources))
	for i, src := range sources {
		out[i] = src.Path
	}
	return out
}

// Encode serialises the configuration in format ("toml", "yaml", "yml" or
// "json"), keeping key order.
func (s *Store) Encode(w io.Writer, format string) error {
	c, err := codec.ForExt(format)
	if err != nil {
		return err
	}
	return c.Encode(w, s.doc)
}

// Write saves the configuration to the file to, in the format given by its
// extension. "~" is expanded and relative paths are taken from the working
// directory.
//
// An existing file must be writable and a new one needs an existing,
// writable directory; otherwise tomato.ErrPermissionDenied or
// tomato.ErrDirectoryNotFound is returned and nothing is written.
// Directories are never created. The state is not modified.
func (s *Store) Write(to string) error {
	path, err := s.AbsPath(to)
	if err != nil {
		return err
	}

	c, err := codec.ForPath(path, s.opts.Format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf, s.doc); err != nil {
		return err
	}

	res, err := s.files.Write(path, &buf)
	if err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}

	s.logger.Info("configuration written", "path", path, "bytes", res.BytesWritten, "sha256", res.Checksum)
	return nil
}

// AbsPath is the path Write uses for p: "~" expanded and resolved against
// the working directory.
func (s *Store) AbsPath(p string) (string, error) {
	wd, err := s.getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	home := ""
	if strings.HasPrefix(p, "~") {
		if home, err = s.homeDir(); err != nil {
			return "", fmt.Errorf("expand %s: %w", p, err)
		}
	}
	return tomato.AbsPath(p, wd, home), nil
}

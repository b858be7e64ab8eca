// Package loader reads resolved configuration sources and folds them into a
// single document, later sources overriding earlier ones key by key.
package loader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sagarc03/tomato"
	"github.com/sagarc03/tomato/codec"
	"github.com/sagarc03/tomato/filesystem"
	"github.com/sagarc03/tomato/source"
)

// Loader reads and merges sources.
type Loader struct {
	Store *filesystem.Store
	// DefaultExt picks the codec for files whose extension is not known.
	DefaultExt string
	// StrictDefaults makes a missing or unreadable defaults file an error
	// instead of a warning.
	StrictDefaults bool
	Logger         *slog.Logger
}

// New returns a Loader reading through store with TOML as the fallback
// format.
func New(store *filesystem.Store) *Loader {
	return &Loader{Store: store, DefaultExt: "toml"}
}

// Load reads every source in order and merges them. Sources that are
// missing or unreadable are skipped with a warning, except the defaults file
// when StrictDefaults is set. A file that cannot be parsed is always an
// error.
func (l *Loader) Load(sources []source.Source) (*tomato.Table, error) {
	log := l.logger()
	doc := tomato.NewTable()

	for _, src := range sources {
		data, err := l.Store.Read(src.Path)
		if err != nil {
			if !errors.Is(err, filesystem.ErrNotFound) && !errors.Is(err, tomato.ErrPermissionDenied) {
				return nil, err
			}
			if l.StrictDefaults && src.Role == source.RoleDefaults {
				return nil, fmt.Errorf("%w: %w", tomato.ErrDefaultsUnavailable, err)
			}
			log.Warn("skipped configuration file", "path", src.Path, "role", src.Role, "err", err)
			continue
		}

		c, err := codec.ForPath(src.Path, l.DefaultExt)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src.Path, err)
		}

		part, err := c.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src.Path, err)
		}
		if part.Len() == 0 {
			log.Debug("configuration file is empty", "path", src.Path)
			continue
		}

		doc = tomato.MergeTables(doc, part)
		log.Debug("loaded configuration file", "path", src.Path, "role", src.Role, "keys", part.Len())
	}

	return doc, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

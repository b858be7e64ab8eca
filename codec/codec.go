package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sagarc03/tomato"
)

// ErrUnsupportedFormat is returned for extensions without a codec.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Codec decodes configuration files into ordered tables and encodes them
// back, keeping key order.
type Codec interface {
	// Name is the canonical extension, without the dot.
	Name() string
	Decode(data []byte) (*tomato.Table, error)
	Encode(w io.Writer, doc *tomato.Table) error
}

var codecs = map[string]Codec{
	"toml": TOML{},
	"yaml": YAML{},
	"yml":  YAML{},
	"json": JSON{},
}

// ForExt returns the codec for an extension given with or without the dot.
func ForExt(ext string) (Codec, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	c, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return c, nil
}

// ForPath picks the codec from the file extension of path, falling back to
// fallbackExt when the extension is missing or unknown.
func ForPath(path, fallbackExt string) (Codec, error) {
	if c, err := ForExt(filepath.Ext(path)); err == nil {
		return c, nil
	}
	return ForExt(fallbackExt)
}

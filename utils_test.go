package tomato_test

import (
	"path/filepath"
	"testing"

	"github.com/sagarc03/tomato"
	"github.com/stretchr/testify/assert"
)

func TestExpandHome(t *testing.T) {
	home := filepath.FromSlash("/home/user")

	tt := []struct {
		Name string
		Path string
		Want string
	}{
		{Name: "tilde only", Path: "~", Want: home},
		{Name: "tilde slash", Path: "~/.tomato.toml", Want: filepath.Join(home, ".tomato.toml")},
		{Name: "other user untouched", Path: "~bob/x", Want: "~bob/x"},
		{Name: "absolute untouched", Path: "/etc/x.toml", Want: "/etc/x.toml"},
		{Name: "relative untouched", Path: "var/etc/x.toml", Want: "var/etc/x.toml"},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, tomato.ExpandHome(tc.Path, home))
		})
	}
}

func TestAbsPath(t *testing.T) {
	home := filepath.FromSlash("/home/user")
	dir := filepath.FromSlash("/work/project")

	tt := []struct {
		Name string
		Path string
		Want string
	}{
		{Name: "relative", Path: "./var/etc/defaults.toml", Want: filepath.Join(dir, "var", "etc", "defaults.toml")},
		{Name: "parent", Path: "../other.toml", Want: filepath.Join(filepath.Dir(dir), "other.toml")},
		{Name: "home", Path: "~/.tomato.toml", Want: filepath.Join(home, ".tomato.toml")},
		{Name: "absolute", Path: "/abs/x.toml", Want: filepath.FromSlash("/abs/x.toml")},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, tomato.AbsPath(tc.Path, dir, home))
		})
	}
}

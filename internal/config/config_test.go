package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/spacemap/internal/scanner"
	"github.com/lumipallolabs/spacemap/internal/treemap"
)

// isolate points the default config location at an empty home
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	c, err := Load("", nil)
	require.NoError(t, err)

	assert.True(t, c.ShowFreeSpace)
	assert.Equal(t, 150*time.Millisecond, c.ResizeDebounce)
	assert.Equal(t, "127.0.0.1:8731", c.Listen)
	assert.Equal(t, int64(scanner.DefaultMinFileSize), c.Scan.MinFileSize)
	assert.Equal(t, 1200, c.Window.Width)
	assert.Equal(t, 800, c.Window.Height)
	assert.Equal(t, treemap.DefaultOptions(), c.LayoutOptions())
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
show_free_space: false
resize_debounce: 300ms
scan:
  min_file_size: 0
  skip_hidden: true
  exclude: [/mnt, /media]
layout:
  padding: 3
`)
	c, err := Load(path, nil)
	require.NoError(t, err)

	assert.False(t, c.ShowFreeSpace)
	assert.Equal(t, 300*time.Millisecond, c.ResizeDebounce)
	assert.Equal(t, 3.0, c.Layout.Padding)
	assert.Equal(t, treemap.DefaultHeader, c.Layout.Header)

	p := c.Profile()
	assert.True(t, p.SkipHidden)
	assert.Equal(t, int64(0), p.MinFileSize)
	assert.Equal(t, []string{"/mnt", "/media"}, p.ExcludedPaths)
}

func TestLoadDefaultLocation(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("HOME"), ".config", "spacemap")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("listen: 0.0.0.0:9000\n"), 0644))

	c, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", c.Listen)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvAndFlags(t *testing.T) {
	isolate(t)
	t.Setenv("SPACEMAP_LAYOUT_PADDING", "8")
	t.Setenv("SPACEMAP_LISTEN", "127.0.0.1:1")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", "", "")
	flags.Bool("free-space", true, "")
	require.NoError(t, flags.Parse([]string{"--listen", "127.0.0.1:2", "--free-space=false"}))

	c, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 8.0, c.Layout.Padding)
	assert.Equal(t, "127.0.0.1:2", c.Listen, "flags beat the environment")
	assert.False(t, c.ShowFreeSpace)
}

func TestLoadUnsetFlagKeepsDefault(t *testing.T) {
	isolate(t)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("remote", "", "")
	require.NoError(t, flags.Parse(nil))

	c, err := Load("", flags)
	require.NoError(t, err)
	assert.Empty(t, c.Remote)
	assert.True(t, c.ShowFreeSpace)
}

func TestValidate(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		body string
	}{
		{"negative min size", "scan:\n  min_file_size: -1\n"},
		{"tiny min side", "layout:\n  min_side: 0\n"},
		{"bad remote", "remote: ftp://host\n"},
		{"zero window", "window:\n  width: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), nil)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

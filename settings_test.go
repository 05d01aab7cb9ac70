// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/zipcontents/internal/pbo"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	assert.Equal(t, ListFlat, s.Mode)
	assert.Equal(t, Duration(DefaultPollInterval), s.PollInterval)
	assert.Equal(t, SeekModeClamp, s.Archive.Stream.SeekMode)
	assert.Equal(t, pbo.OffsetModeSequential, s.Archive.PBOOffsetMode)
	assert.Empty(t, s.FileExcludePatterns)
}

func TestParseSettings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		ext  string
		data string
	}{
		{
			name: "json",
			ext:  ".json",
			data: `{
  "mode": "tree",
  "poll_interval": "500ms",
  "file_exclude_patterns": ["*.tmp", "*.bak"],
  "folder_exclude_patterns": [".git"],
  "archive": {"stream": {"seek_mode": "strict"}, "verify_pbo_checksum": true}
}`,
		},
		{
			name: "yaml",
			ext:  ".YML",
			data: `mode: tree
poll_interval: 500ms
file_exclude_patterns:
  - "*.tmp"
  - "*.bak"
folder_exclude_patterns: [".git"]
archive:
  stream:
    seek_mode: strict
  verify_pbo_checksum: true
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := ParseSettings([]byte(tc.data), tc.ext)
			require.NoError(t, err)

			assert.Equal(t, ListTree, s.Mode)
			assert.Equal(t, Duration(500*time.Millisecond), s.PollInterval)
			assert.Equal(t, []string{"*.tmp", "*.bak"}, s.FileExcludePatterns)
			assert.Equal(t, []string{".git"}, s.FolderExcludePatterns)
			assert.Equal(t, SeekModeStrict, s.Archive.Stream.SeekMode)
			assert.True(t, s.Archive.VerifyPBOChecksum)
			assert.Equal(t, pbo.OffsetModeSequential, s.Archive.PBOOffsetMode)
		})
	}
}

func TestSettings_YAMLNestedOptions(t *testing.T) {
	t.Parallel()

	s, err := ParseSettings([]byte("archive: {stream: {seek_mode: strict}}\nexclude_matcher_options: {}\n"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, SeekModeStrict, s.Archive.Stream.SeekMode)

	want := DefaultSettings()
	want.Archive.Stream.SeekMode = SeekModeStrict
	want.Archive.PBOOffsetMode = pbo.OffsetModeStoredCompat

	data, err := yaml.Marshal(want)
	require.NoError(t, err)

	got, err := ParseSettings(data, ".yaml")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var opts ExcludeOptions
	require.NoError(t, yaml.Unmarshal([]byte("file_exclude_patterns: [\"*.tmp\"]\nexclude_rules_matcher_options: {}\n"), &opts))
	assert.Equal(t, []string{"*.tmp"}, opts.FilePatterns)

	_, err = yaml.Marshal(CoordinatorOptions{ScratchDir: "/tmp"})
	require.NoError(t, err)
}

func TestParseSettings_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseSettings([]byte(`{"mode":"grid"}`), ".json")
	assert.ErrorContains(t, err, `invalid mode "grid"`)

	_, err = ParseSettings([]byte(`poll_interval: soon`), ".yaml")
	assert.ErrorContains(t, err, "parse duration")

	_, err = ParseSettings([]byte(`mode = "flat"`), ".toml")
	assert.ErrorContains(t, err, "unsupported settings format")
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	s, err := LoadSettings(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	s, err = LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	path := filepath.Join(dir, "zipcontents.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: tree\nscratch_dir: /var/tmp\n"), 0o600))

	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, ListTree, s.Mode)
	assert.Equal(t, "/var/tmp", s.ScratchDir)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	_, err = LoadSettings(bad)
	assert.ErrorContains(t, err, "bad.json")
}

func TestSettings_ApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvFileExcludePatterns:   "*.tmp, ,*.log",
		EnvFolderExcludePatterns: "node_modules",
		EnvMode:                  " TREE ",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	s := DefaultSettings()
	s.FileExcludePatterns = []string{"*.old"}
	require.NoError(t, s.ApplyEnv(lookup))

	assert.Equal(t, []string{"*.tmp", "*.log"}, s.FileExcludePatterns)
	assert.Equal(t, []string{"node_modules"}, s.FolderExcludePatterns)
	assert.Equal(t, ListTree, s.Mode)

	opts := s.ExcludeOptions()
	assert.Equal(t, s.FileExcludePatterns, opts.FilePatterns)
	assert.Equal(t, s.FolderExcludePatterns, opts.FolderPatterns)

	filter, err := NewExcludeFilter(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.go"}, filter.Apply([]string{"x.tmp", "node_modules/a.js", "src/a.go"}))

	env[EnvMode] = "grid"
	assert.Error(t, s.ApplyEnv(lookup))
}

func TestDuration_Text(t *testing.T) {
	t.Parallel()

	text, err := Duration(1500 * time.Millisecond).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(" 2s ")))
	assert.Equal(t, Duration(2*time.Second), d)
}

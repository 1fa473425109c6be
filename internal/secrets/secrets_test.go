// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadSearchKey(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, SearchAPIKey, "  sk_live_4f9a2c  \n")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_4f9a2c", s.SearchAPIKey())
	assert.Equal(t, "sk_live_4f9a2c", s.Get(SearchAPIKey))
	assert.Equal(t, "", s.Get("maps-token"))
}

func TestLoadMissingDirectory(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, s)
	assert.Equal(t, "", s.SearchAPIKey())
}

func TestLoadIgnoresNoise(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, ".gitkeep", "")
	writeSecret(t, dir, SearchAPIKey+"~", "old-key")
	writeSecret(t, dir, "empty", " \n\t")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
	writeSecret(t, dir, "maps-token", "mt_1")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Store{"maps-token": "mt_1"}, s)
}

func TestLoadRejectsMultilineSearchKey(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, SearchAPIKey, "sk_live_4f9a2c\n# rotated 2026-09\n")

	_, err := Load(dir)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), SearchAPIKey)
}

func TestLoadKeepsFreeformOtherSecrets(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "notes", "line one\nline two")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", s.Get("notes"))
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeSecret(t, dir, SearchAPIKey, "sk_ok")
	bad := filepath.Join(dir, "locked")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o000))
	t.Cleanup(func() { os.Chmod(bad, 0o600) })

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{SearchAPIKey}, s.Names())
}

func TestCheckHeaderValue(t *testing.T) {
	assert.NoError(t, CheckHeaderValue("sk_live-4f9a.2c"))
	for _, v := range []string{"a b", "a\tb", "a\r\nX-Evil: 1", "a\x7f"} {
		assert.ErrorIs(t, CheckHeaderValue(v), ErrInvalid, "%q", v)
	}
}

func TestNamesSorted(t *testing.T) {
	s := Store{"b": "2", SearchAPIKey: "k", "a": "1"}
	assert.Equal(t, []string{"a", "b", SearchAPIKey}, s.Names())
	assert.Empty(t, Store(nil).Names())
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "", Redact(""))
	assert.Equal(t, "****", Redact("letmein"))
	assert.Equal(t, "****9a2c", Redact("sk_live_4f9a2c"))
}

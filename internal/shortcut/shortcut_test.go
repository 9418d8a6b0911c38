package shortcut_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"udsterminal.dev/launcher/internal/shortcut"
)

func TestContent(t *testing.T) {
	s := shortcut.NewBatchShortcut(`C:\Python312\python.exe`)
	assert.Equal(t,
		"@echo off\r\n\"C:\\Python312\\python.exe\" \"%~dp0app.py\"\r\npause\r\n",
		s.Content("app.py"))
}

func TestWriteOnWindows(t *testing.T) {
	dir := t.TempDir()
	s := shortcut.NewBatchShortcut("python")
	s.GOOS = "windows"

	shortcutPath, err := s.Write(dir, "app.py")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, shortcut.DEFAULT_FILE_NAME), shortcutPath)

	data, err := os.ReadFile(shortcutPath)
	require.NoError(t, err)
	assert.Equal(t, s.Content("app.py"), string(data))
}

func TestWriteSkippedElsewhere(t *testing.T) {
	dir := t.TempDir()
	s := shortcut.NewBatchShortcut("python3")
	s.GOOS = "linux"

	shortcutPath, err := s.Write(dir, "app.py")
	require.NoError(t, err)
	assert.Empty(t, shortcutPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteIntoMissingFolder(t *testing.T) {
	s := shortcut.NewBatchShortcut("python")
	s.GOOS = "windows"
	_, err := s.Write(filepath.Join(t.TempDir(), "missing"), "app.py")
	assert.Error(t, err)
}

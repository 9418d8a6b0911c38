package configloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"udsterminal.dev/launcher/internal/configloader"
)

// Test default configuration loading
func TestLoadDefaultConfiguration(t *testing.T) {
	configuration, err := configloader.LoadConfiguration("unexistent", "")
	if err != nil {
		t.Fatal(err)
	}
	if configuration.LogLevel != "info" {
		t.Errorf("Default log level is \"%s\", not \"%s\"", configuration.LogLevel, "info")
	}
	assert.True(t, configuration.Pause)
	assert.True(t, configuration.HistoryEnabled)
	assert.True(t, configuration.CreateShortcut)
	assert.Equal(t, ".udslauncher", configuration.HistoryPath)
	assert.Empty(t, configuration.ManifestPath)
	assert.NotEmpty(t, configuration.PythonExecutable)
}

// Test environment variables configuration loading
func TestLoadEnvironmentVariablesConfiguration(t *testing.T) {
	t.Setenv("LOG_LEVEL", "LOG_LEVEL")
	t.Setenv("PAUSE", "false")
	t.Setenv("PYTHON_EXECUTABLE", "/opt/python/bin/python3.12")

	configuration, err := configloader.LoadConfiguration("unexistent", "")
	if err != nil {
		t.Fatal(err)
	}
	if configuration.LogLevel != "LOG_LEVEL" {
		t.Errorf("Default log level is \"%s\", not \"%s\"", configuration.LogLevel, "LOG_LEVEL")
	}
	assert.False(t, configuration.Pause)
	assert.Equal(t, "/opt/python/bin/python3.12", configuration.PythonExecutable)
}

func TestLoadConfigurationFile(t *testing.T) {
	configurationFilePath := filepath.Join(t.TempDir(), "launcher.yaml")
	content := "MANIFEST_PATH: requirements.toml\nHISTORY_ENABLED: false\n"
	if err := os.WriteFile(configurationFilePath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	configuration, err := configloader.LoadConfiguration("unexistent", configurationFilePath)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "requirements.toml", configuration.ManifestPath)
	assert.False(t, configuration.HistoryEnabled)
	assert.Equal(t, "info", configuration.LogLevel)
}

func TestLoadMissingConfigurationFile(t *testing.T) {
	_, err := configloader.LoadConfiguration("unexistent", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultPythonExecutable(t *testing.T) {
	assert.Equal(t, "python", configloader.DefaultPythonExecutable("windows"))
	assert.Equal(t, "python3", configloader.DefaultPythonExecutable("linux"))
	assert.Equal(t, "python3", configloader.DefaultPythonExecutable("darwin"))
}

func chdir(t *testing.T, dir string) {
	previous, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err = os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(previous) })
}

// Test dotenv configuration loading
func TestLoadDotenvConfiguration(t *testing.T) {
	dir := t.TempDir()
	content := "HISTORY_PATH=dotenv-history\nLOG_LEVEL=trace\nCREATE_SHORTCUT=false\n"
	if err := os.WriteFile(filepath.Join(dir, configloader.DOTENV_FILE_NAME), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("LOG_LEVEL", "warn")

	configuration, err := configloader.LoadConfiguration("unexistent", "")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "dotenv-history", configuration.HistoryPath)
	assert.False(t, configuration.CreateShortcut)
	assert.Equal(t, "warn", configuration.LogLevel, "exported variables win over the dotenv file")

	_, exported := os.LookupEnv("HISTORY_PATH")
	assert.False(t, exported, "the dotenv file must not leak into the process environment")
}

func TestLoadWithoutDotenv(t *testing.T) {
	chdir(t, t.TempDir())
	configuration, err := configloader.LoadConfiguration("unexistent", "")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ".udslauncher", configuration.HistoryPath)
}

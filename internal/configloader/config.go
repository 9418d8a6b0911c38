package configloader

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Structure to bind application parameters
type Config struct {
	LogLevel         string `mapstructure:"LOG_LEVEL"`         // logrus library log level to be assigned
	PythonExecutable string `mapstructure:"PYTHON_EXECUTABLE"` // interpreter used for every probe and the launch
	ManifestPath     string `mapstructure:"MANIFEST_PATH"`     // TOML requirement manifest, empty for the built-in one
	LauncherDir      string `mapstructure:"LAUNCHER_DIR"`      // directory holding the target program, empty for the executable folder
	Pause            bool   `mapstructure:"PAUSE"`             // wait for the user before exiting
	HistoryEnabled   bool   `mapstructure:"HISTORY_ENABLED"`
	HistoryPath      string `mapstructure:"HISTORY_PATH"`
	CreateShortcut   bool   `mapstructure:"CREATE_SHORTCUT"`
}

// Name of the optional dotenv file read before the environment is bound
const DOTENV_FILE_NAME = ".env"

// Initialize default parameters values
func initDefaultConfiguration(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PYTHON_EXECUTABLE", DefaultPythonExecutable(runtime.GOOS))
	v.SetDefault("MANIFEST_PATH", "")
	v.SetDefault("LAUNCHER_DIR", "")
	v.SetDefault("PAUSE", true)
	v.SetDefault("HISTORY_ENABLED", true)
	v.SetDefault("HISTORY_PATH", ".udslauncher")
	v.SetDefault("CREATE_SHORTCUT", true)
}

// DefaultPythonExecutable returns the interpreter name installers register on the given OS.
func DefaultPythonExecutable(goos string) string {
	if goos == "windows" {
		return "python"
	}
	return "python3"
}

// loadDotenv binds the dotenv values to the viper instance without touching
// the process environment. Exported variables keep precedence.
func loadDotenv(v *viper.Viper, dotenvPath string) {
	if _, err := os.Stat(dotenvPath); err != nil {
		return
	}
	values, err := godotenv.Read(dotenvPath)
	if err != nil {
		logrus.Warn(err.Error())
		return
	}
	for key, value := range values {
		if _, exported := os.LookupEnv(key); !exported {
			v.Set(key, value)
		}
	}
}

// Load configuration from dotenv, config file and environment
func LoadConfiguration(applicationName string, configurationFilePath string) (config Config, err error) {
	v := viper.New()
	initDefaultConfiguration(v)

	loadDotenv(v, DOTENV_FILE_NAME)

	if configurationFilePath == "" {
		// Read the volume root path
		root := filepath.VolumeName(".")
		if root == "" {
			root = string(filepath.Separator)
		}

		// Set configuration named config from etc/*appName*, $HOME/.*appName* or current folders
		v.AddConfigPath(filepath.Join(root, "etc", applicationName))
		v.AddConfigPath(filepath.Join("$HOME", "."+applicationName))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	} else {
		// Set the configuration file path
		v.SetConfigFile(configurationFilePath)
	}

	// Get configuration from environment variables, if set
	v.AutomaticEnv()

	// Get configuration from configuration file, if set
	if configError := v.ReadInConfig(); configError != nil {
		if configurationFilePath != "" {
			err = configError
			return
		}
		logrus.Debug(configError.Error())
	}
	err = v.Unmarshal(&config)

	return
}

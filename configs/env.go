package configs

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type EnvConfig struct {
	ApplicationName string
	LogLevel        string
}

var Env = &EnvConfig{}

// Load reads an optional .env file into the process environment and
// captures the variables read before the properties file is parsed.
func Load(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	viper.AutomaticEnv()

	Env = &EnvConfig{
		ApplicationName: getStringOrDefault("APPLICATION_NAME", "todo-api"),
		LogLevel:        getStringOrDefault("LOG_LEVEL", "info"),
	}
	return nil
}

func getStringOrDefault(key, defaultValue string) string {
	value := viper.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}

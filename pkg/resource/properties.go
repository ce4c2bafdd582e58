package resource

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPropertiesPath = "configs/application.yml"

var (
	properties = viper.New()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// Load reads the properties file pointed by PROPERTIES_FILE_PATH, or configs/application.yml
func Load() error {
	path, ok := os.LookupEnv("PROPERTIES_FILE_PATH")
	if !ok {
		path = defaultPropertiesPath
	}
	return Init(path)
}

// Init loads application properties from the given YAML file, resolving
// ${ENV} and ${ENV:default} placeholders against the process environment.
func Init(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("fail to read properties %s: %w", filepath, err)
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), resolved)
	for key, value := range resolved {
		v.Set(key, value)
	}

	properties = v
	return nil
}

// parsePropertiesMap walks the YAML tree and flattens it into dotted keys
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			result[fullKey] = v
		}
	}
}

// resolveEnvVariable replaces every placeholder in value. A placeholder with
// no environment value and no default resolves to the empty string.
func resolveEnvVariable(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(placeholder string) string {
		matches := envPattern.FindStringSubmatch(placeholder)
		if envValue, exists := os.LookupEnv(strings.TrimSpace(matches[1])); exists {
			return envValue
		}
		return matches[2]
	})
}

func Get(key string) any {
	return properties.Get(key)
}

func GetString(key string) string {
	return properties.GetString(key)
}

// GetStringOrDefault returns the property, or defaultValue when it is empty or missing
func GetStringOrDefault(key, defaultValue string) string {
	if value := properties.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func GetBool(key string) bool {
	return properties.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return properties.GetDuration(key)
}

func GetInt(key string) int {
	return properties.GetInt(key)
}

func GetStringSlice(key string) []string {
	return properties.GetStringSlice(key)
}

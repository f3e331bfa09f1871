package locset

import (
	"github.com/caarlos0/env/v11"
)

// ConfigFromEnv convenience method to process configs.
func ConfigFromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

// ConfigurationLocalization carries the environment driven settings of the
// localization service.
type ConfigurationLocalization struct {
	DefaultLocale    string   `envDefault:"en"   env:"LOCALIZATION_DEFAULT_LOCALE"    yaml:"default_locale"`
	SupportedLocales []string `envDefault:"en"   env:"LOCALIZATION_SUPPORTED_LOCALES" yaml:"supported_locales"  envSeparator:","`
	SyncWorkerCount  int      `envDefault:"4"    env:"LOCALIZATION_SYNC_WORKER_COUNT" yaml:"sync_worker_count"`
	DatabaseURL      string   `env:"DATABASE_URL" yaml:"database_url"`

	LogLevel string `envDefault:"info" env:"LOG_LEVEL" yaml:"log_level"`
}

func (c *ConfigurationLocalization) GetDefaultLocale() string {
	return c.DefaultLocale
}

func (c *ConfigurationLocalization) GetSupportedLocales() []string {
	return c.SupportedLocales
}

func (c *ConfigurationLocalization) GetSyncWorkerCount() int {
	return c.SyncWorkerCount
}

func (c *ConfigurationLocalization) LoggingLevel() string {
	return c.LogLevel
}

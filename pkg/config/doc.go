// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with caarlos0/env tags:
//
//	type Config struct {
//		Addr      string   `env:"HTTP_ADDR" envDefault:":8080"`
//		Languages []string `env:"I18N_LANGUAGES" envDefault:"ru,en" envSeparator:","`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// The first Load reads the nearest .env file (searching parent directories)
// with joho/godotenv. Real environment variables take precedence over it.
// Each configuration type is parsed once and cached; Reset clears the cache.
package config

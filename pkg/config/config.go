package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
		Port string `mapstructure:"port"`
	} `mapstructure:"app"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Rates struct {
		DataDir      string `mapstructure:"data_dir"`
		PrimaryURL   string `mapstructure:"primary_url"`
		SecondaryURL string `mapstructure:"secondary_url"`
		RefreshCron  string `mapstructure:"refresh_cron"`
	} `mapstructure:"rates"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")
	v.AddConfigPath("../../config")

	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("rates.primary_url", "https://devisesquare.com/")
	v.SetDefault("rates.secondary_url", "https://open.er-api.com/v6/latest/EUR")
	v.SetDefault("rates.refresh_cron", "0 9 * * *")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ResolveDataDir picks the directory the rate files live in. An explicitly
// configured path wins; otherwise the first writable candidate out of the
// production mount, a temp location and a local ./data dir is used.
func ResolveDataDir(configured string) (string, error) {
	if configured != "" {
		if err := os.MkdirAll(configured, 0o755); err != nil {
			return "", err
		}
		return configured, nil
	}

	candidates := []string{
		"/data",
		filepath.Join(os.TempDir(), "data"),
	}
	for _, dir := range candidates {
		if dirIsWritable(dir) {
			return dir, nil
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	fallback := filepath.Join(wd, "data")
	if err := os.MkdirAll(fallback, 0o755); err != nil {
		return "", err
	}
	return fallback, nil
}

func dirIsWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return false
	}
	os.Remove(probe)
	return true
}

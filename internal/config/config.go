package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Env         string        `yaml:"env" env:"ENV" env-default:"local"`
	DatabaseUrl string        `yaml:"database_url" env:"DATABASE_URL"`
	Server      ServerConfig  `yaml:"rest"`
	JWT         JWTSecret     `yaml:"jwt"`
	Log         LogConfig     `yaml:"log"`
	Storage     StorageConfig `yaml:"storage"`
	Forms       FormsConfig   `yaml:"forms"`
}

type ServerConfig struct {
	Port           string   `yaml:"port" env:"PORT" env-default:"8080"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type JWTSecret struct {
	Secret string `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver   string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	MaxConns int32  `yaml:"max_conns" env:"STORAGE_MAX_CONNS" env-default:"4"`
	// SeedPath lists root templates loaded at startup by the memory driver.
	SeedPath string `yaml:"seed_path" env:"STORAGE_SEED_PATH"`
}

type FormsConfig struct {
	ResolutionPolicy  string        `yaml:"resolution_policy" env:"FORMS_RESOLUTION_POLICY" env-default:"root"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval" env:"FORMS_RECONCILE_INTERVAL" env-default:"5s"`
	ReconcileBatch    int           `yaml:"reconcile_batch" env:"FORMS_RECONCILE_BATCH" env-default:"50"`
}

func MustLoad() *Config {
	path := fetchConfigPath()

	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var config Config
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if config.Storage.Driver == "postgres" && config.DatabaseUrl == "" {
		return nil, fmt.Errorf("database_url is required for the postgres storage driver")
	}
	return &config, nil
}

func fetchConfigPath() string {
	var res string

	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.StringVar(&res, "config", "", "config path")
	_ = flags.Parse(os.Args[1:])

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "./config/local.yaml"
	}

	return res
}

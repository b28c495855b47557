package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type AWSConf struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
}

type CatalogConf struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RequestsPerSec float64 `mapstructure:"requests_per_second"`
	Burst          int     `mapstructure:"burst"`
	MaxFailures    uint32  `mapstructure:"max_failures"`
}

type RedisConf struct {
	Addr            string `mapstructure:"addr"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

type Config struct {
	App     AppConf     `mapstructure:"app"`
	AWS     AWSConf     `mapstructure:"aws"`
	Catalog CatalogConf `mapstructure:"catalog"`
	Redis   RedisConf   `mapstructure:"redis"`
	Log     struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	CatalogTimeout time.Duration
	CacheTTL       time.Duration
}

// Load reads the config file at path (optional) with environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				if !os.IsNotExist(err) {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = os.Getenv("AWS_REGION")
	}
	if cfg.AWS.Bucket == "" {
		cfg.AWS.Bucket = os.Getenv("S3_BUCKET_NAME")
	}
	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.Catalog.APIKey == "" {
		cfg.Catalog.APIKey = os.Getenv("TMDB_API_KEY")
	}
	if cfg.Catalog.TimeoutSeconds == 0 {
		cfg.Catalog.TimeoutSeconds = 10
	}
	if cfg.Catalog.RequestsPerSec == 0 {
		cfg.Catalog.RequestsPerSec = 4
	}
	if cfg.Catalog.Burst == 0 {
		cfg.Catalog.Burst = 8
	}
	if cfg.Catalog.MaxFailures == 0 {
		cfg.Catalog.MaxFailures = 5
	}
	if cfg.Redis.CacheTTLSeconds == 0 {
		cfg.Redis.CacheTTLSeconds = 600
	}
	cfg.CatalogTimeout = time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	cfg.CacheTTL = time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second

	return &cfg, nil
}

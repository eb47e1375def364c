package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	EnginePath      string `mapstructure:"ENGINE_PATH"`
	EngineHashMb    int    `mapstructure:"ENGINE_HASH_MB"`
	EngineThreads   int    `mapstructure:"ENGINE_THREADS"`
	MastersUrl      string `mapstructure:"MASTERS_URL"`
	LichessUrl      string `mapstructure:"LICHESS_URL"`
	RedisUrl        string `mapstructure:"REDIS_URL"`
	MongoUri        string `mapstructure:"MONGO_URI"`
	IsLocalCors     bool   `mapstructure:"LOCAL_CORS"`
	Iterations      int    `mapstructure:"ITERATIONS"`
	CacheTtlMinutes int    `mapstructure:"CACHE_TTL_MINUTES"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.MastersUrl == "" {
		cfg.MastersUrl = "https://explorer.lichess.ovh/master"
	}
	if cfg.LichessUrl == "" {
		cfg.LichessUrl = "https://explorer.lichess.ovh/lichess"
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 4
	}
	if cfg.CacheTtlMinutes <= 0 {
		cfg.CacheTtlMinutes = 60
	}
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Settlement SettlementConfig `mapstructure:"settlement"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres, mysql, sqlite
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr          string `mapstructure:"addr"` // empty disables the settlement cache
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	SettlementTTL int    `mapstructure:"settlementTTL"` // seconds
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // hours
}

type NATSConfig struct {
	URL     string `mapstructure:"url"` // empty disables publishing
	Subject string `mapstructure:"subject"`
}

type SettlementConfig struct {
	Workers    int    `mapstructure:"workers"`
	SweepSpec  string `mapstructure:"sweepSpec"` // cron spec with seconds; empty disables the sweep
	SweepBatch int    `mapstructure:"sweepBatch"`
}

func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.SettlementTTL) * time.Second
}

var GlobalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("redis.settlementTTL", 3600)
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("nats.subject", "bj.settlement.completed")
	v.SetDefault("settlement.workers", 4)
	v.SetDefault("settlement.sweepBatch", 100)
}

func LoadConfig(path string) {
	cfg, err := Read(path)
	if err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}
	GlobalConfig = cfg
}

// Read loads a yaml config file. BJ_ prefixed environment variables
// (BJ_DATABASE_DSN, ...) override file values.
func Read(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

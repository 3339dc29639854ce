package config

import (
	"log"

	"gopkg.in/yaml.v3"

	"goalpath/pkg/config"
)

type Config struct {
	DB      config.DBConfig      `yaml:"db"`
	Redis   config.RedisConfig   `yaml:"redis"`
	JWT     config.JWTConfig     `yaml:"jwt"`
	Server  config.ServerConfig  `yaml:"server"`
	Enhance config.EnhanceConfig `yaml:"enhance"`
	Demo    config.DemoConfig    `yaml:"demo"`
}

func Load() *Config {
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	cfgMap, err := config.LoadConfig(env, configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var cfg Config
	cfgData, err := yaml.Marshal(cfgMap)
	if err != nil {
		log.Fatalf("failed to marshal config: %v", err)
	}
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	// env overrides win over file values
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideEnhanceFromEnv(&cfg.Enhance)
	config.OverrideDemoFromEnv(&cfg.Demo)

	return &cfg
}

// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Search   SearchConfig   `mapstructure:"search"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// SearchConfig 存储图片检索引擎的配置。
type SearchConfig struct {
	MaxQueryLength      int           `mapstructure:"max_query_length"`
	DefaultLimit        int           `mapstructure:"default_limit"`
	MaxLimit            int           `mapstructure:"max_limit"`
	OverfetchMultiplier int           `mapstructure:"overfetch_multiplier"`
	Weights             SearchWeights `mapstructure:"weights"`
}

// SearchWeights 定义了相关性打分的各档权重。
// prompt 三档互斥，仅最高档计分；tag 三档对每个标签独立累加；
// provider 与 model 为包含即加分的平权项。
type SearchWeights struct {
	PromptExact    int `mapstructure:"prompt_exact"`
	PromptPrefix   int `mapstructure:"prompt_prefix"`
	PromptContains int `mapstructure:"prompt_contains"`
	OriginalBonus  int `mapstructure:"original_bonus"`
	TagExact       int `mapstructure:"tag_exact"`
	TagPrefix      int `mapstructure:"tag_prefix"`
	TagContains    int `mapstructure:"tag_contains"`
	ProviderModel  int `mapstructure:"provider_model"`
}

// DefaultSearchConfig 返回检索引擎的默认配置。
// 配置文件缺省或部分缺省时由 Init 补齐。
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxQueryLength:      500,
		DefaultLimit:        50,
		MaxLimit:            100,
		OverfetchMultiplier: 2,
		Weights: SearchWeights{
			PromptExact:    100,
			PromptPrefix:   80,
			PromptContains: 50,
			OriginalBonus:  25,
			TagExact:       70,
			TagPrefix:      40,
			TagContains:    20,
			ProviderModel:  30,
		},
	}
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}

	applySearchDefaults(&Conf.Search)
}

// applySearchDefaults 为检索配置中缺省的字段补默认值。
func applySearchDefaults(sc *SearchConfig) {
	def := DefaultSearchConfig()
	if sc.MaxQueryLength <= 0 {
		sc.MaxQueryLength = def.MaxQueryLength
	}
	if sc.DefaultLimit <= 0 {
		sc.DefaultLimit = def.DefaultLimit
	}
	if sc.MaxLimit <= 0 {
		sc.MaxLimit = def.MaxLimit
	}
	if sc.OverfetchMultiplier <= 0 {
		sc.OverfetchMultiplier = def.OverfetchMultiplier
	}

	w := &sc.Weights
	dw := def.Weights
	if w.PromptExact <= 0 {
		w.PromptExact = dw.PromptExact
	}
	if w.PromptPrefix <= 0 {
		w.PromptPrefix = dw.PromptPrefix
	}
	if w.PromptContains <= 0 {
		w.PromptContains = dw.PromptContains
	}
	if w.OriginalBonus <= 0 {
		w.OriginalBonus = dw.OriginalBonus
	}
	if w.TagExact <= 0 {
		w.TagExact = dw.TagExact
	}
	if w.TagPrefix <= 0 {
		w.TagPrefix = dw.TagPrefix
	}
	if w.TagContains <= 0 {
		w.TagContains = dw.TagContains
	}
	if w.ProviderModel <= 0 {
		w.ProviderModel = dw.ProviderModel
	}
}

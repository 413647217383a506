package config

import (
	"os"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 APP_MYSQL_HOST
const EnvPrefix = "APP"

var (
	cfg  = defaults()
	lock sync.RWMutex
)

func defaults() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		JWT: JWT{
			AccessSecret: "change-me",
			AccessExpire: 7 * 24 * 3600,
		},
		Log: Log{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		OTel: OTel{
			ServiceName: "campus-activity",
		},
	}
}

// Get 获取当前配置，未调用 Init 时返回默认值
func Get() *Config {
	lock.RLock()
	defer lock.RUnlock()
	return cfg
}

// Set 替换全局配置，主要给测试使用
func Set(c *Config) {
	lock.Lock()
	defer lock.Unlock()
	cfg = c
}

// Load 读取 yaml 配置文件后再用环境变量覆盖
// path 为空时依次在 . 和 ./config 下查找 config.yaml
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	c := defaults()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "读取配置文件失败")
		}
	} else if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "解析配置文件失败")
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, errors.Wrap(err, "读取环境变量失败")
	}
	if c.Mode != ModeDebug && c.Mode != ModeRelease {
		return nil, errors.Errorf("未知的运行模式: %s", c.Mode)
	}
	return c, nil
}

func Init() {
	c, err := Load(os.Getenv(EnvPrefix + "_CONFIG"))
	if err != nil {
		panic(err)
	}
	Set(c)
}

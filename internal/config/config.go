package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 进程配置。API 密钥只能来自配置文件、环境变量或 .env，
// 源码中没有任何内置密钥。
type Config struct {
	// AvalaAI 网关
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`

	// 超时（秒）
	RequestTimeout int `mapstructure:"request_timeout"`
	CheckTimeout   int `mapstructure:"check_timeout"`

	// 冒烟测试相邻用例间的停顿（秒）
	CaseDelay int `mapstructure:"case_delay"`

	Debug bool `mapstructure:"debug"`

	Tree TreeConfig `mapstructure:"tree"`
}

// TreeConfig 目录树输出配置
type TreeConfig struct {
	// Exclude 排除的条目名
	Exclude []string `mapstructure:"exclude"`

	// ExcludePrefixes 排除的名称前缀
	ExcludePrefixes []string `mapstructure:"exclude_prefixes"`

	// Output 图片输出的默认文件名
	Output string `mapstructure:"output"`
}

// RequestTimeoutDuration 返回单次调用超时
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// CheckTimeoutDuration 返回连通性探测超时
func (c *Config) CheckTimeoutDuration() time.Duration {
	return time.Duration(c.CheckTimeout) * time.Second
}

// CaseDelayDuration 返回用例间停顿
func (c *Config) CaseDelayDuration() time.Duration {
	return time.Duration(c.CaseDelay) * time.Second
}

// RequireAPIKey 翻译相关命令执行前的密钥检查
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("no API key configured: set AVALAI_API_KEY (env or .env) or api_key in the config file")
	}
	return nil
}

// Load 加载配置：.env -> 配置文件 -> 环境变量，后者覆盖前者。
// configPath 为空时在家目录和当前目录搜索 .devtools.yaml；
// 找不到配置文件不算错误，直接用默认值。
func Load(configPath string) (*Config, error) {
	// .env 不存在时静默跳过
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DEVTOOLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 原脚本的密钥约定保留为一等环境变量
	_ = v.BindEnv("api_key", "AVALAI_API_KEY", "DEVTOOLS_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	} else {
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
		v.SetConfigName(".devtools")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://api.avalai.ir/v1")
	v.SetDefault("model", "gemini-2.5-flash-lite")
	v.SetDefault("request_timeout", 30)
	v.SetDefault("check_timeout", 10)
	v.SetDefault("case_delay", 1)
	v.SetDefault("tree.exclude", []string{"node_modules", ".git"})
	v.SetDefault("tree.exclude_prefixes", []string{})
	v.SetDefault("tree.output", "tree_output.jpg")
}

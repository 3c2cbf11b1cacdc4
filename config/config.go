// Package config 读取 JSON 配置。API 凭据只存环境变量名，
// 进程启动时解析一次，不落盘。
package config

import (
	"encoding/json"
	"errors"
	"os"
)

// LLMConfig 模型配置。三个操作允许不同档位：
// search_model 要带联网搜索能力，plan_model 用更强的档位。
type LLMConfig struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	SearchModel string `json:"search_model,omitempty"`
	PlanModel   string `json:"plan_model,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
	APIKeyEnv   string `json:"api_key_env,omitempty"`
}

// Config 应用配置。
type Config struct {
	LLM        *LLMConfig `json:"llm"`
	ServerAddr string     `json:"server_addr,omitempty"`
}

// Load reads JSON config from disk and fills defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return Config{}, errors.New("config must include llm.provider")
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	llm := cfg.LLM
	if llm.Model == "" {
		llm.Model = "gpt-4o-mini"
	}
	if llm.SearchModel == "" {
		llm.SearchModel = "gpt-4o-search-preview"
	}
	if llm.PlanModel == "" {
		llm.PlanModel = "gpt-4o"
	}
	if llm.APIKeyEnv == "" {
		llm.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
}

// APIKey 从环境变量解析凭据。
func (l *LLMConfig) APIKey() string {
	return os.Getenv(l.APIKeyEnv)
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Name             string `yaml:"name"`
		Env              string `yaml:"env"`
		LogLevel         string `yaml:"logLevel"`
		BypassCompliance bool   `yaml:"bypassCompliance"`
	} `yaml:"app"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Model struct {
		APIKey         string  `yaml:"apiKey"`
		Name           string  `yaml:"name"`
		MaxTokens      int     `yaml:"maxTokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeoutSeconds"`
	} `yaml:"model"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
		KMSKeyID   string `yaml:"kmsKeyID"`
	} `yaml:"minio"`

	Vanta struct {
		BaseURL         string `yaml:"baseURL"`
		ClientID        string `yaml:"clientID"`
		ClientSecret    string `yaml:"clientSecret"`
		RedirectURI     string `yaml:"redirectURI"`
		StateTTLMinutes int    `yaml:"stateTTLMinutes"`
	} `yaml:"vanta"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Auth struct {
		SecretKey       string `yaml:"secretKey"`
		TokenTTLMinutes int    `yaml:"tokenTTLMinutes"`
	} `yaml:"auth"`
}

// Load reads the yaml config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "compliance-copilot"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = 4000
	}
	if c.Model.TimeoutSeconds == 0 {
		c.Model.TimeoutSeconds = 30
	}
	if c.Vanta.BaseURL == "" {
		c.Vanta.BaseURL = "https://api.vanta.com/v1"
	}
	if c.Vanta.StateTTLMinutes == 0 {
		c.Vanta.StateTTLMinutes = 10
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 30
	}
}

func (c *Config) validate() error {
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secretKey is required")
	}
	return nil
}

func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}

func (c *Config) StateTTL() time.Duration {
	return time.Duration(c.Vanta.StateTTLMinutes) * time.Minute
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

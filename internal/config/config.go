package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/amankumarsingh77/video-nft-minter/internal/models"
)

type Config struct {
	Api        ApiConfig
	Chain      ChainConfig
	Constraint ConstraintConfig
	S3         S3Config
	Logger     Logger
}

type ApiConfig struct {
	Endpoint       string `validate:"required,url"`
	ApiKey         string `validate:"required"`
	PollIntervalMs int    `validate:"omitempty,gte=100"`
}

type ChainConfig struct {
	Name            string
	ChainID         int64
	RpcUrl          string
	PrivateKey      string
	ContractAddress string
}

type ConstraintConfig struct {
	SizeLimitBytes       int64
	MinAcceptableBitrate int64
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.SetEnvPrefix("VIDEONFT")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Constraint.SizeLimitBytes <= 0 {
		c.Constraint.SizeLimitBytes = models.DefaultSizeLimitBytes
	}
	if c.Constraint.MinAcceptableBitrate <= 0 {
		c.Constraint.MinAcceptableBitrate = models.DefaultMinAcceptableBitrate
	}
	return &c, nil
}

// PollInterval returns the configured poll interval, or zero to let the
// poller fall back to its default.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Api.PollIntervalMs) * time.Millisecond
}

// SizeConstraint maps the config section onto the planner's input.
func (c *Config) SizeConstraint() models.SizeConstraint {
	return models.SizeConstraint{
		SizeLimitBytes:       c.Constraint.SizeLimitBytes,
		MinAcceptableBitrate: c.Constraint.MinAcceptableBitrate,
	}
}

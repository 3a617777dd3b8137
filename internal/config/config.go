package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Auth modes. Remote delegates verification to an external issuer's JWKS;
// local issues and verifies HS256 tokens itself.
const (
	AuthModeLocal  = "local"
	AuthModeRemote = "remote"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		Mode             string
		JWTSecret        string
		TokenTTLMinutes  int
		RegisterPassword string
		Domain           string
		Audience         string
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix("POSTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/postboard.db")
	v.SetDefault("auth.mode", AuthModeLocal)
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlminutes", 60)
	v.SetDefault("auth.registerpassword", "")
	v.SetDefault("auth.domain", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "post-attachments")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch cfg.Auth.Mode {
	case AuthModeLocal, AuthModeRemote:
	default:
		return Config{}, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}

	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/yukikurage/taskforge-api/internal/constants"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	GinMode string `mapstructure:"gin_mode"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"`
	LogLevel string `mapstructure:"log_level"`
	// MaxRetries bounds serialization-failure retries for membership mutations.
	MaxRetries int `mapstructure:"max_retries"`
}

type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	Algorithm      string        `mapstructure:"algorithm"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type SecurityConfig struct {
	PasswordHasher string `mapstructure:"password_hasher"`
	BcryptCost     int    `mapstructure:"bcrypt_cost"`
}

type SessionConfig struct {
	Secret     string `mapstructure:"secret"`
	CookieName string `mapstructure:"cookie_name"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type BootstrapConfig struct {
	AdminEmail string `mapstructure:"admin_email"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	Session   SessionConfig   `mapstructure:"session"`
	Log       LogConfig       `mapstructure:"log"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.Server.GinMode == "release"
}

// Load reads configuration from defaults, an optional YAML file and
// TASKFORGE_* environment variables, in increasing precedence.
// An empty path looks for config.yaml in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// e.g. TASKFORGE_JWT_SECRET, TASKFORGE_DATABASE_DRIVER
	v.SetEnvPrefix("TASKFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.gin_mode", "debug")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "taskuser")
	v.SetDefault("database.password", "taskpassword")
	v.SetDefault("database.name", "taskforge")
	v.SetDefault("database.path", "taskforge.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_retries", constants.DefaultSerializableRetries)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.access_token_ttl", constants.DefaultAccessTokenTTL)

	v.SetDefault("security.password_hasher", "argon2id")
	v.SetDefault("security.bcrypt_cost", 12)

	v.SetDefault("session.secret", "default-secret-key-change-me")
	v.SetDefault("session.cookie_name", constants.SessionCookieName)

	v.SetDefault("log.level", "info")
	v.SetDefault("bootstrap.admin_email", "")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported jwt algorithm %q", c.JWT.Algorithm)
	}

	if c.JWT.Secret == "" {
		if c.IsRelease() {
			return errors.New("jwt secret must be set in release mode")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}

	if c.JWT.AccessTokenTTL <= 0 {
		c.JWT.AccessTokenTTL = constants.DefaultAccessTokenTTL
	}

	switch c.Security.PasswordHasher {
	case "argon2id", "bcrypt":
	default:
		return fmt.Errorf("unsupported password hasher %q", c.Security.PasswordHasher)
	}

	return nil
}

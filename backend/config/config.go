package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type DB struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Pass            string
	Name            string
	Path            string
	MaxRetries      int
	RetryDelay      time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type Throttle struct {
	MaxFailures int
	Window      time.Duration
}

type RateLimit struct {
	RPS   float64
	Burst int
}

type Auth struct {
	Secret        string
	Issuer        string
	AccessMin     int
	RefreshDays   int
	BcryptCost    int
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	Throttle      Throttle
	RateLimit     RateLimit
}

type Config struct {
	Server Server
	DB     DB
	Redis  Redis
	Auth   Auth
	Log    struct {
		Level string
	}
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STAR_SONGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.pass", "")
	v.SetDefault("database.name", "star_songs")
	v.SetDefault("database.path", "star_songs.db")
	v.SetDefault("database.max_retries", 5)
	v.SetDefault("database.retry_delay", time.Second)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.access_min", 15)
	v.SetDefault("auth.refresh_days", 7)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_email", "admin@example.com")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.throttle.max_failures", 5)
	v.SetDefault("auth.throttle.window", 15*time.Minute)
	v.SetDefault("auth.rate_limit.rps", 10.0)
	v.SetDefault("auth.rate_limit.burst", 20)
	v.SetDefault("log.level", "info")
	if err := v.ReadInConfig(); err != nil {
		// missing file runs on defaults and env only
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Server: Server{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},
		DB: DB{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Pass:            v.GetString("database.pass"),
			Name:            v.GetString("database.name"),
			Path:            v.GetString("database.path"),
			MaxRetries:      v.GetInt("database.max_retries"),
			RetryDelay:      v.GetDuration("database.retry_delay"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: Redis{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}
	cfg.Auth.Secret = v.GetString("auth.secret")
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = "dev-secret"
	}
	cfg.Auth.Issuer = v.GetString("auth.issuer")
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "star-songs"
	}
	cfg.Auth.AccessMin = v.GetInt("auth.access_min")
	if cfg.Auth.AccessMin <= 0 {
		cfg.Auth.AccessMin = 15
	}
	cfg.Auth.RefreshDays = v.GetInt("auth.refresh_days")
	if cfg.Auth.RefreshDays <= 0 {
		cfg.Auth.RefreshDays = 7
	}
	cfg.Auth.BcryptCost = v.GetInt("auth.bcrypt_cost")
	cfg.Auth.AdminUsername = v.GetString("auth.admin_username")
	cfg.Auth.AdminEmail = v.GetString("auth.admin_email")
	cfg.Auth.AdminPassword = v.GetString("auth.admin_password")
	cfg.Auth.Throttle = Throttle{
		MaxFailures: v.GetInt("auth.throttle.max_failures"),
		Window:      v.GetDuration("auth.throttle.window"),
	}
	cfg.Auth.RateLimit = RateLimit{
		RPS:   v.GetFloat64("auth.rate_limit.rps"),
		Burst: v.GetInt("auth.rate_limit.burst"),
	}
	cfg.Log.Level = v.GetString("log.level")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("unknown database driver %q", cfg.DB.Driver)
	}
	return cfg, nil
}

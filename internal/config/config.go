package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	Storage  StorageConfig
	Social   SocialConfig
}

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	FrontendURL string // social login redirects land here
}

type DatabaseConfig struct {
	URL             string // takes precedence over the discrete fields
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type LogConfig struct {
	Level  string
	Format string
}

type StorageConfig struct {
	Driver    string // local, s3
	LocalDir  string
	PublicURL string

	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

type SocialConfig struct {
	// DefaultCompanyID owns customers created through social login.
	DefaultCompanyID string
	CallbackBaseURL  string
	Google           OAuthClient
	Facebook         OAuthClient
	GitHub           OAuthClient
}

// DSN builds a postgres connection string when no URL is configured.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Env:         v.GetString("app.env"),
			Port:        v.GetString("port"),
			FrontendURL: v.GetString("frontend.url"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			SSLMode:         v.GetString("db.sslmode"),
			TimeZone:        v.GetString("db.timezone"),
			MaxOpenConns:    v.GetInt("db.max.open.conns"),
			MaxIdleConns:    v.GetInt("db.max.idle.conns"),
			ConnMaxLifetime: v.GetDuration("db.conn.max.lifetime"),
			LogLevel:        v.GetString("db.log.level"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Storage: StorageConfig{
			Driver:       v.GetString("storage.driver"),
			LocalDir:     v.GetString("storage.local.dir"),
			PublicURL:    v.GetString("storage.public.url"),
			Endpoint:     v.GetString("storage.s3.endpoint"),
			Region:       v.GetString("storage.s3.region"),
			Bucket:       v.GetString("storage.s3.bucket"),
			AccessKey:    v.GetString("storage.s3.access.key"),
			SecretKey:    v.GetString("storage.s3.secret.key"),
			UsePathStyle: v.GetBool("storage.s3.path.style"),
		},
		Social: SocialConfig{
			DefaultCompanyID: v.GetString("social.default.company.id"),
			CallbackBaseURL:  v.GetString("social.callback.base.url"),
			Google:           OAuthClient{v.GetString("google.client.id"), v.GetString("google.client.secret")},
			Facebook:         OAuthClient{v.GetString("facebook.client.id"), v.GetString("facebook.client.secret")},
			GitHub:           OAuthClient{v.GetString("github.client.id"), v.GetString("github.client.secret")},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "BizDesk API")
	v.SetDefault("app.env", "development")
	v.SetDefault("port", "3000")
	v.SetDefault("frontend.url", "http://localhost:5173")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.name", "bizdesk")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max.open.conns", 100)
	v.SetDefault("db.max.idle.conns", 10)
	v.SetDefault("db.conn.max.lifetime", time.Hour)
	v.SetDefault("db.log.level", "warn")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("jwt.issuer", "bizdesk-api")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.dir", "./uploads")
	v.SetDefault("storage.public.url", "/uploads")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("social.callback.base.url", "http://localhost:3000/api/v1/auth/social")
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if c.App.Env == "production" {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("STORAGE_S3_BUCKET is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

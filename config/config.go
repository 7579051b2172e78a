package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig web server configuration
type WebConfig struct {
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	SessionSecret string   `yaml:"session_secret"`
	AllowOrigins  []string `yaml:"allow_origins"`
}

// DBConfig database configuration; type is one of memory, sqlite, postgres
type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
	Seed     bool   `yaml:"seed"`
}

// LogConfig logging configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// AuthConfig back-office authentication
type AuthConfig struct {
	JwtSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

// SmtpConfig outgoing mail for inquiry notifications
type SmtpConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Workers  int      `yaml:"workers"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system"`
	Web      WebConfig  `yaml:"web"`
	Database DBConfig   `yaml:"database"`
	Logger   LogConfig  `yaml:"logger"`
	Auth     AuthConfig `yaml:"auth"`
	Smtp     SmtpConfig `yaml:"smtp"`
}

// Development-only credentials; a production configuration must replace them.
const (
	defaultSessionSecret = "storefront-session-secret"
	defaultJwtSecret     = "storefront-jwt-secret"
	defaultAdminPassword = "storefront"
)

// Default returns a configuration suitable for local development.
func Default() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "Storefront",
			Location: "UTC",
			Workdir:  "/var/storefront",
		},
		Web: WebConfig{
			Host:          "0.0.0.0",
			Port:          5000,
			SessionSecret: defaultSessionSecret,
			AllowOrigins:  []string{"*"},
		},
		Database: DBConfig{
			Type:     "memory",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "storefront",
			User:     "postgres",
			MaxConn:  20,
			IdleConn: 5,
			Seed:     true,
		},
		Logger: LogConfig{
			Mode:     "development",
			Filename: "/var/storefront/storefront.log",
		},
		Auth: AuthConfig{
			JwtSecret:     defaultJwtSecret,
			TokenTTLHours: 12,
			AdminUsername: "admin",
			AdminPassword: defaultAdminPassword,
		},
		Smtp: SmtpConfig{
			Port:    587,
			From:    "no-reply@polestar-furniture.com",
			Workers: 4,
		},
	}
}

// GetDataDir returns the directory for the sqlite database file
func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

// GetLogDir returns the directory for rotated log files
func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

// Validate rejects configurations the application cannot start with
func (c *AppConfig) Validate() error {
	switch c.Database.Type {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port %d", c.Web.Port)
	}
	if strings.TrimSpace(c.Auth.JwtSecret) == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Smtp.Enabled && (c.Smtp.Host == "" || len(c.Smtp.To) == 0) {
		return fmt.Errorf("smtp is enabled but host or recipients are missing")
	}
	if c.Logger.Mode == "production" {
		if names := c.DefaultCredentials(); len(names) > 0 {
			return fmt.Errorf("production mode requires %s to be changed from the default", strings.Join(names, ", "))
		}
	}
	return nil
}

// DefaultCredentials lists the secrets still set to their development values.
func (c *AppConfig) DefaultCredentials() []string {
	var names []string
	if c.Auth.JwtSecret == defaultJwtSecret {
		names = append(names, "auth.jwt_secret")
	}
	if c.Web.SessionSecret == defaultSessionSecret {
		names = append(names, "web.session_secret")
	}
	if c.Auth.AdminUsername != "" && c.Auth.AdminPassword == defaultAdminPassword {
		names = append(names, "auth.admin_password")
	}
	return names
}

// LoadConfig reads the yaml file at path over the defaults, then applies
// STOREFRONT_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := cast.ToIntE(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			if b, err := cast.ToBoolE(v); err == nil {
				*dst = b
			}
		}
	}
	setList := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok {
			var out []string
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					out = append(out, item)
				}
			}
			*dst = out
		}
	}

	setString("STOREFRONT_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setString("STOREFRONT_SYSTEM_LOCATION", &cfg.System.Location)
	setBool("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)

	setString("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setInt("STOREFRONT_WEB_PORT", &cfg.Web.Port)
	setString("STOREFRONT_WEB_SESSION_SECRET", &cfg.Web.SessionSecret)
	setList("STOREFRONT_WEB_ALLOW_ORIGINS", &cfg.Web.AllowOrigins)

	setString("STOREFRONT_DB_TYPE", &cfg.Database.Type)
	setString("STOREFRONT_DB_HOST", &cfg.Database.Host)
	setInt("STOREFRONT_DB_PORT", &cfg.Database.Port)
	setString("STOREFRONT_DB_NAME", &cfg.Database.Name)
	setString("STOREFRONT_DB_USER", &cfg.Database.User)
	setString("STOREFRONT_DB_PWD", &cfg.Database.Passwd)
	setBool("STOREFRONT_DB_DEBUG", &cfg.Database.Debug)
	setBool("STOREFRONT_DB_SEED", &cfg.Database.Seed)

	setString("STOREFRONT_LOGGER_MODE", &cfg.Logger.Mode)
	setBool("STOREFRONT_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setString("STOREFRONT_LOGGER_FILENAME", &cfg.Logger.Filename)

	setString("STOREFRONT_AUTH_JWT_SECRET", &cfg.Auth.JwtSecret)
	setInt("STOREFRONT_AUTH_TOKEN_TTL_HOURS", &cfg.Auth.TokenTTLHours)
	setString("STOREFRONT_AUTH_ADMIN_USERNAME", &cfg.Auth.AdminUsername)
	setString("STOREFRONT_AUTH_ADMIN_PASSWORD", &cfg.Auth.AdminPassword)

	setBool("STOREFRONT_SMTP_ENABLED", &cfg.Smtp.Enabled)
	setString("STOREFRONT_SMTP_HOST", &cfg.Smtp.Host)
	setInt("STOREFRONT_SMTP_PORT", &cfg.Smtp.Port)
	setString("STOREFRONT_SMTP_USERNAME", &cfg.Smtp.Username)
	setString("STOREFRONT_SMTP_PASSWORD", &cfg.Smtp.Password)
	setString("STOREFRONT_SMTP_FROM", &cfg.Smtp.From)
	setList("STOREFRONT_SMTP_TO", &cfg.Smtp.To)
}

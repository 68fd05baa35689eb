package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the process-wide configuration, set once at startup
// (core.Conf = core.NewConfig()) and read-only thereafter.
var Conf *Config

type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string
	WorkDir  string

	// SecretKey signs auth and password-reset tokens. The default is a
	// placeholder that must be overridden outside local development.
	SecretKey []byte

	FrontendBaseURL  string
	DefaultFromEmail mail.Address
	SendgridApiKey   string
	RollbarToken     string

	Server   ServerConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Host                      string
	Port                      string
	AuthCookieName            string
	JWTExpirationDelta        time.Duration
	JWTRefreshExpirationDelta time.Duration
	PasswordResetTimeoutDelta time.Duration
	AuthRequestsPerMinute     int
}

type DatabaseConfig struct {
	Engine          string
	Name            string
	User            string
	Password        string
	AdminUser       string
	AdminPassword   string
	Host            string
	Port            string
	DisableTLS      bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the configuration once at startup from defaults, an optional
// config/.env.<env> file and environment variables (prefixed with the
// uppercased env name). The returned Config is read-only thereafter.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "SchoolNexus")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "insecure-dev-secret-override-me-before-deploying")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.authCookieName", "auth_token")
	v.SetDefault("server.jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("server.passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("server.authRequestsPerMinute", 10)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "schoolnexus")
	v.SetDefault("database.user", "schoolnexus")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxIdleTime", 5*time.Minute)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		Build:           v.GetString("build"),
		WorkDir:         wd,
		SecretKey:       []byte(v.GetString("secretKey")),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("appName"),
			Address: v.GetString("defaultFromEmail"),
		},
		SendgridApiKey: v.GetString("sendgridApiKey"),
		RollbarToken:   v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Port:                      v.GetString("server.port"),
			AuthCookieName:            v.GetString("server.authCookieName"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
			PasswordResetTimeoutDelta: v.GetDuration("server.passwordResetTimeoutDelta"),
			AuthRequestsPerMinute:     v.GetInt("server.authRequestsPerMinute"),
		},
		Database: DatabaseConfig{
			Engine:          v.GetString("database.engine"),
			Name:            v.GetString("database.name"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			AdminUser:       v.GetString("database.adminUser"),
			AdminPassword:   v.GetString("database.adminPassword"),
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			DisableTLS:      v.GetBool("database.disableTLS"),
			MaxOpenConns:    v.GetInt("database.maxOpenConns"),
			MaxIdleConns:    v.GetInt("database.maxIdleConns"),
			ConnMaxIdleTime: v.GetDuration("database.connMaxIdleTime"),
		},
	}
}

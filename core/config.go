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

// Conf holds the app configuration, resolved once at startup.
var Conf *Config

type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	// remote API
	APIBaseURL string
	APITimeout time.Duration

	// auth provider
	AuthAudience     string
	AuthTokenURL     string
	AuthClientID     string
	AuthClientSecret string
	AuthToken        string // pre-issued bearer token; skips the token endpoint
	AuthDevSecret    string // HS256 secret for self-signed dev tokens

	// services
	DefaultFromEmail mail.Address
	OperatorEmail    string
	SendgridAPIKey   string
	RollbarToken     string
}

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "StudentTrack")
	v.SetDefault("build", "dev")
	v.SetDefault("apiBaseUrl", "http://127.0.0.1:5000/api")
	v.SetDefault("apiTimeout", 30*time.Second)
	v.SetDefault("authAudience", "https://studenttrackapi.com")
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Env:      env,
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		AppName:  v.GetString("appName"),
		Build:    v.GetString("build"),

		APIBaseURL: v.GetString("apiBaseUrl"),
		APITimeout: v.GetDuration("apiTimeout"),

		AuthAudience:     v.GetString("authAudience"),
		AuthTokenURL:     v.GetString("authTokenUrl"),
		AuthClientID:     v.GetString("authClientId"),
		AuthClientSecret: v.GetString("authClientSecret"),
		AuthToken:        v.GetString("authToken"),
		AuthDevSecret:    v.GetString("authDevSecret"),

		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		OperatorEmail:    v.GetString("operatorEmail"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
	}
}

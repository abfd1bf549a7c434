package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	serverConfig struct {
		Address                   string
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	databaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	redisConfig struct {
		URL      string
		Disabled bool
	}

	genAIConfig struct {
		APIKey  string
		Model   string
		Timeout time.Duration
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		RollbarToken     string
		SendgridApiKey   string
		GoogleClientID   string
		DefaultFromEmail mail.Address
		CounselorEmail   mail.Address

		Server   serverConfig
		Database databaseConfig
		Redis    redisConfig
		GenAI    genAIConfig

		// SkillTreeMajor is the tree key used when a profile's major matches no tree.
		SkillTreeMajor  string
		LeaderboardSize int
	}
)

// Address returns the "host:port" the database listens on.
func (c databaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the configuration for the current ENV (DEV by default) from the process environment and,
// if present, from config/.env.<env> at the project root.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Smart Digital Campus")
	v.SetDefault("secretKey", "7w!k3z^p0l#m9q-smaktal-dev-only-x2c$v8b&n4")
	v.SetDefault("frontendBaseURL", "http://localhost:8000")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("counselorEmail", "konselor@localhost")
	v.SetDefault("google.clientID", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "smaktal")
	v.SetDefault("database.user", "smaktal")
	v.SetDefault("database.password", "smaktal")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.disabled", false)

	v.SetDefault("genai.apiKey", "")
	v.SetDefault("genai.model", "gemini-2.0-flash")
	v.SetDefault("genai.timeout", 60*time.Second)

	v.SetDefault("skillTree.defaultMajor", "tkj")
	v.SetDefault("leaderboard.size", 5)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		Env:             env,
		Build:           v.GetString("build"),
		AppName:         v.GetString("appName"),
		SecretKey:       v.GetString("secretKey"),
		WorkDir:         workDir,
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		RollbarToken:    v.GetString("rollbarToken"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		GoogleClientID:  v.GetString("google.clientID"),
		Server: serverConfig{
			Address:                   v.GetString("server.address"),
			Host:                      v.GetString("server.host"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Database: databaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Redis: redisConfig{
			URL:      v.GetString("redis.url"),
			Disabled: v.GetBool("redis.disabled"),
		},
		GenAI: genAIConfig{
			APIKey:  v.GetString("genai.apiKey"),
			Model:   v.GetString("genai.model"),
			Timeout: v.GetDuration("genai.timeout"),
		},
		SkillTreeMajor:  v.GetString("skillTree.defaultMajor"),
		LeaderboardSize: v.GetInt("leaderboard.size"),
	}
	conf.DefaultFromEmail = parseAddress(v.GetString("defaultFromEmail"), conf.AppName)
	conf.CounselorEmail = parseAddress(v.GetString("counselorEmail"), "Konselor")
	return conf
}

func parseAddress(s, defaultName string) mail.Address {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		log.Fatalf("config.parseAddress(%s): %v", s, err)
	}
	if addr.Name == "" {
		addr.Name = defaultName
	}
	return *addr
}

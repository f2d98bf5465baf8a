package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. AUTHFORM_SERVER_PORT.
const EnvPrefix = "AUTHFORM"

// Draft store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

type Config struct {
	App     AppSettings     `mapstructure:"app"`
	Server  ServerSettings  `mapstructure:"server"`
	Drafts  DraftsSettings  `mapstructure:"drafts"`
	Redis   RedisSettings   `mapstructure:"redis"`
	Submit  SubmitSettings  `mapstructure:"submit"`
	Session SessionSettings `mapstructure:"session"`
	UI      UISettings      `mapstructure:"ui"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CookieName      string        `mapstructure:"cookie_name"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
}

// Addr returns host:port for net/http.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DraftsSettings selects where in-progress form values are kept.
type DraftsSettings struct {
	Driver string `mapstructure:"driver"`
	// Dir is used by the file driver.
	Dir string `mapstructure:"dir"`
	// DSN is used by the sqlite driver.
	DSN            string        `mapstructure:"dsn"`
	TTL            time.Duration `mapstructure:"ttl"`
	KeyPrefix      string        `mapstructure:"key_prefix"`
	IncludeSecrets bool          `mapstructure:"include_secrets"`
}

type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SubmitSettings struct {
	Delay         time.Duration `mapstructure:"delay"`
	RedirectDelay time.Duration `mapstructure:"redirect_delay"`
}

type SessionSettings struct {
	AutosaveDebounce time.Duration `mapstructure:"autosave_debounce"`
	ToastCapacity    int           `mapstructure:"toast_capacity"`
	// IdleTTL evicts client sessions without requests for this long.
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
	// MaxSessions caps live client sessions; zero disables the cap.
	MaxSessions int `mapstructure:"max_sessions"`
}

// UISettings configures the rendered page.
type UISettings struct {
	// Definitions points at a page YAML replacing the built-in forms.
	Definitions string `mapstructure:"definitions"`
	Locale      string `mapstructure:"locale"`
	Theme       string `mapstructure:"theme"`
	Variant     string `mapstructure:"variant"`
	// Tokens become CSS variables of the configured theme.
	Tokens map[string]string `mapstructure:"tokens"`
}

// Production reports whether the app runs with production settings.
func (c *Config) Production() bool {
	return c.App.Env == "production"
}

// Load reads .env files, an optional YAML config file and AUTHFORM_
// environment overrides, in increasing precedence. Missing env files are
// ignored; a missing config file is an error.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.shutdown_timeout",
		"server.cookie_name",
		"server.cookie_secure",
		"drafts.driver",
		"drafts.dir",
		"drafts.dsn",
		"drafts.ttl",
		"drafts.key_prefix",
		"drafts.include_secrets",
		"redis.addr",
		"redis.password",
		"redis.db",
		"submit.delay",
		"submit.redirect_delay",
		"session.autosave_debounce",
		"session.toast_capacity",
		"session.idle_ttl",
		"session.max_sessions",
		"ui.definitions",
		"ui.locale",
		"ui.theme",
		"ui.variant",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Drafts.Driver {
	case DriverMemory:
	case DriverFile:
		if strings.TrimSpace(c.Drafts.Dir) == "" {
			errs = append(errs, errors.New("drafts.dir is required for the file driver"))
		}
	case DriverRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis driver"))
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Drafts.DSN) == "" {
			errs = append(errs, errors.New("drafts.dsn is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("drafts.driver %q is not one of memory, file, redis, sqlite", c.Drafts.Driver))
	}
	if c.Submit.Delay < 0 || c.Submit.RedirectDelay < 0 || c.Session.AutosaveDebounce < 0 || c.Session.IdleTTL < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.Session.MaxSessions < 0 {
		errs = append(errs, errors.New("session.max_sessions must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "authform")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cookie_name", "authform_client")
	v.SetDefault("server.cookie_secure", false)

	v.SetDefault("drafts.driver", DriverMemory)
	v.SetDefault("drafts.dir", "./drafts")
	v.SetDefault("drafts.dsn", "file:authform.db")
	v.SetDefault("drafts.ttl", "24h")
	v.SetDefault("drafts.key_prefix", "authform:draft:")
	v.SetDefault("drafts.include_secrets", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("submit.delay", "2s")
	v.SetDefault("submit.redirect_delay", "2s")

	v.SetDefault("session.autosave_debounce", "300ms")
	v.SetDefault("session.toast_capacity", 16)
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.max_sessions", 10000)

	v.SetDefault("ui.locale", "en")
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, EnvPrefix+"_"+envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

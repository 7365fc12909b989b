package config

import (
	"flag"
	"time"
)

type Mode string

const (
	ModeConsole Mode = "console"
	ModeAPI     Mode = "api"
)

type Config struct {
	Console Console `yaml:"console"`
	API     API     `yaml:"api"`
	Storage Storage `yaml:"storage"`
	Backend Backend `yaml:"backend"`
	Log     Log     `yaml:"log"`
}

type Console struct {
	Port      int    `yaml:"port"`
	LoginPath string `yaml:"loginPath"`
	// Lifetime of the browser session that carries flash messages.
	FlashLifetime time.Duration `yaml:"flashLifetime"`
}

type API struct {
	BaseURL string `yaml:"baseURL"`
	// Zero keeps the transport defaults.
	Timeout time.Duration `yaml:"timeout"`
}

type Storage struct {
	Driver string       `yaml:"driver"`
	File   FileStorage  `yaml:"file"`
	Redis  RedisStorage `yaml:"redis"`
	SQLite SQLite       `yaml:"sqlite"`
}

type FileStorage struct {
	Path string `yaml:"path"`
}

type RedisStorage struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type SQLite struct {
	DSN string `yaml:"dsn"`
}

type Backend struct {
	Port      int           `yaml:"port"`
	DataPath  string        `yaml:"dataPath"`
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`
}

type Log struct {
	Development bool `yaml:"development"`
}

// Path of the optional yaml config file, set from the command line.
type Path string

func Default() *Config {
	return &Config{
		Console: Console{
			Port:          8123,
			LoginPath:     "/login",
			FlashLifetime: 10 * time.Minute,
		},
		API: API{
			BaseURL: DefaultBaseURL,
		},
		Storage: Storage{
			Driver: "file",
			File:   FileStorage{Path: "erp-console.json"},
			Redis:  RedisStorage{Prefix: "erp-console:"},
			SQLite: SQLite{DSN: "erp-console.db"},
		},
		Backend: Backend{
			Port:      8081,
			DataPath:  "erp-data.json",
			JWTSecret: "dev-secret-change-me",
			TokenTTL:  8 * time.Hour,
		},
		Log: Log{
			Development: true,
		},
	}
}

// New builds the configuration: defaults, then the yaml file (if any), then
// .env and the process environment.
func New(path Path) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(string(path), cfg); err != nil {
			return nil, err
		}
	}

	loadDotEnv()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.API.BaseURL = NormalizeBaseURL(cfg.API.BaseURL)
	if cfg.Console.LoginPath == "" {
		cfg.Console.LoginPath = "/login"
	}

	return cfg, nil
}

// FlagPath registers the -config flag.
func FlagPath(fs *flag.FlagSet) *string {
	return fs.String("config", "", "path to yaml config file")
}

package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSqlite   = "sqlite"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	HttpPort       int           `yaml:"http_port"`
	ThreadsPerPage int           `yaml:"threads_per_page" validate:"required,min=1"`
	NLastMsg       int           `yaml:"n_last_msg" validate:"required,min=1"` // number of last replies shown per thread in board listing
	BcryptCost     int           `yaml:"bcrypt_cost"`
	StorageDriver  string        `yaml:"storage_driver" validate:"required,oneof=postgres sqlite"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	CorsOrigins    []string      `yaml:"cors_origins"`
	Https          bool          `yaml:"https"` // adds HSTS header
	LogLevel       string        `yaml:"log_level"`
	LogJson        bool          `yaml:"log_json"`
	LogFile        string        `yaml:"log_file"` // empty - stdout only
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type Private struct {
	Pg         *Pg    `yaml:"pg"`
	SqlitePath string `yaml:"sqlite_path"`
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Public.HttpPort)
}

func (c *Config) applyDefaults() {
	p := &c.Public
	if p.HttpPort == 0 {
		p.HttpPort = 8080
	}
	if p.RequestTimeout == 0 {
		p.RequestTimeout = 5 * time.Second
	}
	if p.ReadTimeout == 0 {
		p.ReadTimeout = 5 * time.Second
	}
	if p.WriteTimeout == 0 {
		p.WriteTimeout = 10 * time.Second
	}
	if len(p.CorsOrigins) == 0 {
		p.CorsOrigins = []string{"*"}
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if c.Private.SqlitePath == "" {
		c.Private.SqlitePath = "anonboard.db"
	}
}

// Validate checks required fields and that the selected storage driver has its settings.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Public.StorageDriver == StorageDriverPostgres && c.Private.Pg == nil {
		return fmt.Errorf("storage_driver is %q but pg section is missing", StorageDriverPostgres)
	}
	return nil
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			panic("PORT is not a number: " + port)
		}
		cfg.Public.HttpPort = p
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}

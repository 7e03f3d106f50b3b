package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer
	DB         DB
	Cache      Cache
	Blob       Blob
	Share      Share
	Admin      Admin
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-required:"true"`
	DB       string `yaml:"db" env:"DB_NAME" env-required:"true"`
}

type Cache struct {
	Addr        string        `yaml:"addr" env:"CACHE_ADDR" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB          int           `yaml:"db" env:"CACHE_DB" env-default:"0"`
	SessionTTL  time.Duration `yaml:"session_ttl" env:"CACHE_SESSION_TTL" env-default:"24h"`
	DocumentTTL time.Duration `yaml:"document_ttl" env:"CACHE_DOCUMENT_TTL" env-default:"10m"`
}

type Blob struct {
	Endpoint  string `yaml:"endpoint" env:"BLOB_ENDPOINT" env-required:"true"`
	AccessKey string `yaml:"access_key" env:"BLOB_ACCESS_KEY" env-required:"true"`
	SecretKey string `yaml:"secret_key" env:"BLOB_SECRET_KEY" env-required:"true"`
	Bucket    string `yaml:"bucket" env:"BLOB_BUCKET" env-default:"cloudnest"`
	UseSSL    bool   `yaml:"use_ssl" env:"BLOB_USE_SSL" env-default:"false"`
}

type Share struct {
	GrantTTL   time.Duration `yaml:"grant_ttl" env:"SHARE_GRANT_TTL" env-default:"72h"`
	PresignTTL time.Duration `yaml:"presign_ttl" env:"SHARE_PRESIGN_TTL" env-default:"15m"`
	ReviewBase string        `yaml:"review_base" env:"SHARE_REVIEW_BASE" env-default:"http://localhost:8080/api/review"`
}

type Admin struct {
	Email    string `yaml:"email" env:"ADMIN_EMAIL" env-required:"true"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD" env-required:"true"`
}

func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")

	var cfg Config

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}

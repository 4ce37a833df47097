// config предоставляет структуру конфигурации bookly и функции
// загрузки из файла/.env/переменных окружения с предсказуемым приоритетом.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config — корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
//
// Перед чтением подгружается .env из рабочей директории: значения,
// уже присутствующие в окружении, им не перезаписываются.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	App      AppConfig     `yaml:"app"`
	Auth     AuthConfig    `yaml:"auth"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	Mail     MailConfig    `yaml:"mail"`
	S3       S3Config      `yaml:"s3"`
	Covers   CoversConfig  `yaml:"covers"`
	Log      LogConfig     `yaml:"log"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	// TrustedHosts — допустимые значения заголовка Host (без порта).
	// Пустой список отключает проверку.
	TrustedHosts []string `yaml:"trusted_hosts" env:"TRUSTED_HOSTS" env-separator:"," env-default:"localhost,127.0.0.1"`
	CORSOrigins  []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// AppConfig — публичные параметры приложения, попадающие в ссылки писем.
type AppConfig struct {
	Domain    string `yaml:"domain" env:"DOMAIN" env-default:"localhost:8000"`
	APIPrefix string `yaml:"api_prefix" env:"API_PREFIX" env-default:"/api/v1"`
}

// AuthConfig содержит параметры выпуска и валидации токенов и хэширования паролей.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"1h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"24h"`
	LinkTokenTTL    time.Duration `yaml:"link_token_ttl" env:"LINK_TOKEN_TTL" env-default:"24h"`
	// Leeway — допуск на рассинхронизацию часов при проверке exp.
	Leeway     time.Duration `yaml:"leeway" env:"JWT_LEEWAY" env-default:"0s"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DatabaseURL string `yaml:"db_url" env:"DATABASE_URL" env-required:"true"`
}

// RedisConfig — подключение к Redis и имена ключей.
type RedisConfig struct {
	RedisURL         string `yaml:"redis_url" env:"REDIS_URL" env-required:"true"`
	RevocationPrefix string `yaml:"revocation_prefix" env:"REDIS_REVOCATION_PREFIX" env-default:"bookly:revoked:"`
	MailQueue        string `yaml:"mail_queue" env:"REDIS_MAIL_QUEUE" env-default:"bookly:mail"`
}

// MailConfig — SMTP-транспорт для mail-worker.
type MailConfig struct {
	Server      string `yaml:"server" env:"MAIL_SERVER"`
	Port        int    `yaml:"port" env:"MAIL_PORT" env-default:"587"`
	Username    string `yaml:"username" env:"MAIL_USERNAME"`
	Password    string `yaml:"password" env:"MAIL_PASSWORD"`
	From        string `yaml:"from" env:"MAIL_FROM"`
	FromName    string `yaml:"from_name" env:"MAIL_FROM_NAME" env-default:"Bookly"`
	StartTLS    bool   `yaml:"starttls" env:"MAIL_STARTTLS" env-default:"true"`
	MaxAttempts int    `yaml:"max_attempts" env:"MAIL_MAX_ATTEMPTS" env-default:"3"`
}

// Validate проверяет поля, обязательные для отправки почты.
func (m MailConfig) Validate() error {
	var missing []string
	if m.Server == "" {
		missing = append(missing, "MAIL_SERVER")
	}
	if m.From == "" {
		missing = append(missing, "MAIL_FROM")
	}

	if len(missing) > 0 {
		return fmt.Errorf("mail config: missing %s", strings.Join(missing, ", "))
	}

	return nil
}

// S3Config — объектное хранилище обложек. Пустой Endpoint отключает загрузку обложек.
type S3Config struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT"`
	RootUser      string        `yaml:"root_user" env:"S3_ROOT_USER"`
	RootPassword  string        `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" env-default:"covers"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"10m"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// Enabled сообщает, сконфигурировано ли хранилище.
func (s S3Config) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// CoversConfig — ограничения на загружаемые обложки.
type CoversConfig struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"COVER_MAX_SIZE_BYTES" env-default:"5242880"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"COVER_ALLOWED_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/webp"`
}

// LogConfig — дополнительный файловый sink с ротацией. Пустой File — только stdout.
type LogConfig struct {
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
	Compress   bool   `yaml:"compress" env:"LOG_COMPRESS" env-default:"true"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла ENV-переменные накладываются поверх значений из YAML.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q does not exist: %w", p, err)
		}

		// ReadConfig сам накладывает ENV поверх файла.
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		return &cfg, nil
	}

	if path != "" {
		return readFile(path)
	}

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return readFile(envPath)
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		return readFile("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv подгружает переменные из .env, если файл существует.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to load %s: %w", path, err)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string `yaml:"listen_addr"`
	Port           string `yaml:"port"`
	DatabaseDriver string `yaml:"database_driver"`
	DatabasePath   string `yaml:"database_path"`
	DatabaseURL    string `yaml:"database_url"`
	SessionSecret  string `yaml:"session_secret"`
	GinMode        string `yaml:"gin_mode"`
	UploadDir      string `yaml:"upload_dir"`
	UploadURLPath  string `yaml:"upload_url_path"`
	UploadMaxBytes int64  `yaml:"upload_max_bytes"`
	StaticDir      string `yaml:"static_dir"`
	SiteBaseURL    string `yaml:"site_base_url"`
	SeedMemory     bool   `yaml:"seed_memory"`

	SuperRootUserName string `yaml:"super_root_user_name"`
	SuperRootPassword string `yaml:"super_root_password"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	SMTP SMTPConfig `yaml:"smtp"`
	News NewsConfig `yaml:"news"`
}

// SMTPConfig describes the outgoing mail server used by the contact form.
type SMTPConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	From             string `yaml:"from"`
	ContactRecipient string `yaml:"contact_recipient"`
}

// Enabled reports whether enough settings exist to talk to an SMTP server.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// NewsConfig drives the external news ingestion job.
type NewsConfig struct {
	APIKey   string   `yaml:"api_key"`
	BaseURL  string   `yaml:"base_url"`
	Queries  []string `yaml:"queries"`
	Language string   `yaml:"language"`
	PageSize int      `yaml:"page_size"`
	Schedule string   `yaml:"schedule"`
}

// Enabled reports whether the scheduled ingestion should run.
func (c NewsConfig) Enabled() bool {
	return c.APIKey != "" && c.Schedule != ""
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func defaults() AppConfig {
	return AppConfig{
		Port:           "8080",
		DatabaseDriver: DriverSQLite,
		DatabasePath:   "sitecms.db",
		SessionSecret:  "sitecms-dev-secret",
		GinMode:        "release",
		UploadDir:      "web/static/uploads",
		UploadURLPath:  "/static/uploads",
		UploadMaxBytes: 10 << 20,
		StaticDir:      "web/dist",
		SiteBaseURL:    "http://localhost:8080",
		SeedMemory:     true,
		LogLevel:       "info",
		LogFormat:      "json",
		SMTP: SMTPConfig{
			Port: 587,
		},
		News: NewsConfig{
			BaseURL:  "https://newsapi.org",
			Queries:  []string{"technology"},
			Language: "en",
			PageSize: 20,
			Schedule: "0 */6 * * *",
		},
	}
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// CONFIG_FILE 指向的 YAML 文件会先被合并，环境变量优先级最高。
func Load() (AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.DatabaseDriver, "DATABASE_DRIVER")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.SessionSecret, "SESSION_SECRET")
	setString(&c.GinMode, "GIN_MODE")
	setString(&c.UploadDir, "UPLOAD_DIR")
	setString(&c.UploadURLPath, "UPLOAD_URL_PATH")
	setString(&c.StaticDir, "STATIC_DIR")
	setString(&c.SiteBaseURL, "SITE_BASE_URL")
	setString(&c.SuperRootUserName, "SUPER_ROOT_USER_NAME")
	setString(&c.SuperRootPassword, "SUPER_ROOT_PASSWORD")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.Username, "SMTP_USERNAME")
	setString(&c.SMTP.Password, "SMTP_PASSWORD")
	setString(&c.SMTP.From, "SMTP_FROM")
	setString(&c.SMTP.ContactRecipient, "CONTACT_RECIPIENT")

	setString(&c.News.APIKey, "NEWS_API_KEY")
	setString(&c.News.BaseURL, "NEWS_API_BASE_URL")
	setString(&c.News.Language, "NEWS_LANGUAGE")
	// NEWS_SCHEDULE may be set to an empty string on purpose to disable the job.
	if raw, ok := os.LookupEnv("NEWS_SCHEDULE"); ok {
		c.News.Schedule = strings.TrimSpace(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("NEWS_QUERIES")); raw != "" {
		c.News.Queries = splitList(raw)
	}

	var errs []error
	if err := setInt64(&c.UploadMaxBytes, "UPLOAD_MAX_BYTES"); err != nil {
		errs = append(errs, err)
	}
	if err := setInt(&c.SMTP.Port, "SMTP_PORT"); err != nil {
		errs = append(errs, err)
	}
	if err := setInt(&c.News.PageSize, "NEWS_PAGE_SIZE"); err != nil {
		errs = append(errs, err)
	}
	if err := setBool(&c.SeedMemory, "SEED_MEMORY"); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *AppConfig) normalize() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}
	c.DatabaseDriver = strings.ToLower(c.DatabaseDriver)
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	case "postgresql":
		c.DatabaseDriver = DriverPostgres
	default:
		c.DatabaseDriver = DriverSQLite
	}
	switch c.GinMode = strings.ToLower(c.GinMode); c.GinMode {
	case "debug", "release", "test":
	default:
		c.GinMode = "release"
	}
	if c.UploadURLPath == "" {
		c.UploadURLPath = "/static/uploads"
	}
	c.UploadURLPath = "/" + strings.Trim(c.UploadURLPath, "/")
	if c.UploadMaxBytes <= 0 {
		c.UploadMaxBytes = 10 << 20
	}
	c.SiteBaseURL = strings.TrimRight(c.SiteBaseURL, "/")
	c.News.BaseURL = strings.TrimRight(c.News.BaseURL, "/")
	if c.News.PageSize <= 0 || c.News.PageSize > 100 {
		c.News.PageSize = 20
	}

	queries := c.News.Queries[:0]
	for _, q := range c.News.Queries {
		if trimmed := strings.TrimSpace(q); trimmed != "" {
			queries = append(queries, trimmed)
		}
	}
	c.News.Queries = queries

	if c.SMTP.ContactRecipient == "" {
		c.SMTP.ContactRecipient = c.SMTP.From
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = parsed
	return nil
}

func setInt64(dst *int64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = parsed
	return nil
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	*dst = parsed
	return nil
}

// splitList 按逗号拆分列表并去除空白项。
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

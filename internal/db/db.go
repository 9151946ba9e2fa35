package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options 描述如何连接主数据库。
type Options struct {
	Driver   string // sqlite | postgres
	Path     string // sqlite 文件路径或 DSN
	URL      string // postgres 连接串
	LogLevel logger.LogLevel
}

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&AdminUser{},
		&Section{},
		&News{},
		&Testimonial{},
		&Service{},
		&Project{},
		&Job{},
		&About{},
		&Asset{},
		&ContactMessage{},
		&ContactChannel{},
		&SystemSetting{},
	}
}

// Open 初始化数据库连接并执行自动迁移。
// Path 为空时将回退到默认值 sitecms.db。
func Open(opts Options) (*gorm.DB, error) {
	level := opts.LogLevel
	if level == 0 {
		level = logger.Silent
	}
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "postgres", "postgresql":
		dsn := strings.TrimSpace(opts.URL)
		if dsn == "" {
			return nil, errors.New("postgres driver requires a database url")
		}
		// lib/pq is registered under "postgres"; gorm uses it instead of pgx.
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	default:
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = "sitecms.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(path)
	}

	gdb, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate 自动迁移模式，为核心模型创建表
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}

package config

import (
	"net/url"
	"strings"

	"postapi/internal/core/post"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
)

// ParseDatabaseURL maps a connection string onto a driver and the DSN that
// driver expects.
//
//	sqlite:///posts.db           -> sqlite, "posts.db"
//	sqlite:////var/lib/posts.db  -> sqlite, "/var/lib/posts.db"
//	mysql://u:p@host:3306/blog   -> mysql, "u:p@tcp(host:3306)/blog?clientFoundRows=true&parseTime=true"
//	postgres://u:p@host/blog     -> postgres, unchanged
//	anything else                -> sqlite, unchanged
func ParseDatabaseURL(raw string) (Driver, string, error) {
	switch {
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			path = ":memory:"
		}
		return DriverSQLite, path, nil

	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlDSN(raw)
		if err != nil {
			return "", "", err
		}
		return DriverMySQL, dsn, nil

	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil

	case raw == "":
		return "", "", errors.New("empty database url")
	}

	return DriverSQLite, raw, nil
}

func mysqlDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(err, "invalid mysql url")
	}
	if u.Host == "" {
		return "", errors.Errorf("mysql url %q has no host", u.Redacted())
	}

	var b strings.Builder
	if u.User != nil {
		b.WriteString(u.User.Username())
		if pass, ok := u.User.Password(); ok {
			b.WriteString(":" + pass)
		}
		b.WriteString("@")
	}
	b.WriteString("tcp(" + u.Host + ")")
	b.WriteString(u.Path)

	query := u.Query()
	if query.Get("parseTime") == "" {
		query.Set("parseTime", "true")
	}
	// Report matched rows so an update that changes nothing is not mistaken
	// for a missing row.
	if query.Get("clientFoundRows") == "" {
		query.Set("clientFoundRows", "true")
	}
	b.WriteString("?" + query.Encode())

	return b.String(), nil
}

func dialector(driver Driver, dsn string) gorm.Dialector {
	switch driver {
	case DriverMySQL:
		return mysql.Open(dsn)
	case DriverPostgres:
		return postgres.Open(dsn)
	default:
		return gormlite.Open(dsn)
	}
}

// InitDB opens the configured store and creates the posts table if it does
// not exist yet.
func InitDB(conf *Config, logger *zap.Logger) (*gorm.DB, error) {
	driver, dsn, err := ParseDatabaseURL(conf.DatabaseURL)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if conf.Development() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector(driver, dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect to %s database", driver)
	}

	if driver == DriverSQLite {
		if err := tuneSQLite(db); err != nil {
			return nil, err
		}
	}

	if err := db.AutoMigrate(&post.Post{}); err != nil {
		return nil, errors.Wrap(err, "could not migrate posts table")
	}

	logger.Info("database ready", zap.String("driver", string(driver)))
	return db, nil
}

func tuneSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=wal",
		"PRAGMA busy_timeout=5000",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return errors.Wrapf(err, "could not apply %q", pragma)
		}
	}
	return nil
}

// CloseDB releases the connection pool behind db.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sqlDB.Close())
}

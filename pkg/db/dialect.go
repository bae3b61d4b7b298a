package db

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/smallbiznis/gstbilling/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

// Dialect returns the gorm dialector for cfg.DBType.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBType)) {
	case DialectPostgres:
		return postgres.Open(PostgresDSN(cfg)), nil
	case DialectMySQL:
		return mysql.Open(MySQLDSN(cfg)), nil
	case DialectSQLite:
		return sqlite.Open(SQLiteDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

// PostgresDSN builds a URL-form DSN so credentials with reserved
// characters survive.
func PostgresDSN(cfg config.Config) string {
	query := url.Values{}
	query.Set("sslmode", cfg.DBSSLMode)
	query.Set("TimeZone", "UTC")
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     net.JoinHostPort(cfg.DBHost, cfg.DBPort),
		Path:     "/" + cfg.DBName,
		RawQuery: query.Encode(),
	}
	return dsn.String()
}

// MySQLDSN parses DATETIME columns into UTC time.Time values.
func MySQLDSN(cfg config.Config) string {
	mc := mysqldriver.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// SQLiteDSN waits on locked databases instead of failing and enables WAL
// so dashboard reads do not block document writes.
func SQLiteDSN(cfg config.Config) string {
	path := strings.TrimSpace(cfg.DBPath)
	if path == "" {
		path = "gstbilling.db"
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

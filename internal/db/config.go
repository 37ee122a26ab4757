package db

import (
	"fmt"
	"net/url"
	"strings"
)

// Local socket defaults used when no URL is configured.
const (
	DefaultHost     = "/var/run/postgresql"
	DefaultUser     = "postgres"
	DefaultDatabase = "todo-lists"
)

// Config selects how the executor reaches Postgres. When URL is set it is
// used as-is, with certificate verification relaxed if InsecureTLS is on.
// Otherwise Host, User and Database describe a local connection.
type Config struct {
	URL         string
	InsecureTLS bool

	Host     string
	User     string
	Database string
}

// DSN renders the connection string handed to the driver.
func (c Config) DSN() string {
	if c.URL != "" {
		if c.InsecureTLS {
			return withSSLMode(c.URL, "require")
		}
		return c.URL
	}
	host, user, database := c.Host, c.User, c.Database
	if host == "" {
		host = DefaultHost
	}
	if user == "" {
		user = DefaultUser
	}
	if database == "" {
		database = DefaultDatabase
	}
	return fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable",
		quoteValue(host), quoteValue(user), quoteValue(database))
}

// withSSLMode sets sslmode unless the DSN already carries one. pgx treats
// "require" as encrypt-without-verify.
func withSSLMode(dsn, mode string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		if q.Get("sslmode") != "" {
			return dsn
		}
		q.Set("sslmode", mode)
		u.RawQuery = q.Encode()
		return u.String()
	}
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	return strings.TrimSpace(dsn) + " sslmode=" + mode
}

func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

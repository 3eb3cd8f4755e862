package database

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tlmonitor/dashboard/internal/secrets"
)

// BuildDSN turns vault credentials into a driver connection string.
func BuildDSN(driver string, creds secrets.DBCredentials, port int, sslMode string) (string, error) {
	host := strings.TrimPrefix(creds.Server, "tcp:")
	if h, p, ok := strings.Cut(host, ","); ok {
		// SQL Server style "host,port"
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	switch driver {
	case "sqlserver":
		query := url.Values{}
		query.Set("database", creds.Database)
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(creds.User, creds.Password),
			Host:     fmt.Sprintf("%s:%d", host, port),
			RawQuery: query.Encode(),
		}
		return u.String(), nil
	case "postgres":
		query := url.Values{}
		query.Set("sslmode", sslMode)
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(creds.User, creds.Password),
			Host:     fmt.Sprintf("%s:%d", host, port),
			Path:     "/" + creds.Database,
			RawQuery: query.Encode(),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

package qlang

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// DatasourceInfo is a parsed connect string, grounded on
// original_source/lib/Datasource.cc's own connect-string grammar:
//
//	driver:user/password@host:port/database{?opt=val&opt2=val2}
//
// every segment but driver is optional. The grammar is a small,
// custom one rather than a generic URL, so it's parsed by hand the
// same way the source scans it char-by-char, rather than forced
// through net/url.
type DatasourceInfo struct {
	Driver   string
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Options  map[string]string
}

// ParseDatasourceString parses s, raising DATASOURCE-PARSE-ERROR into
// sink on malformed input.
func ParseDatasourceString(s string, sink *Sink) *DatasourceInfo {
	info := &DatasourceInfo{Options: make(map[string]string)}

	driver, rest, ok := strings.Cut(s, ":")
	if !ok || driver == "" {
		raiseDatasourceError(sink, "missing driver in %q", s)
		return nil
	}
	info.Driver = driver

	if q := strings.IndexByte(rest, '?'); q >= 0 {
		query := rest[q+1:]
		rest = rest[:q]
		for _, pair := range strings.Split(query, "&") {
			if pair == "" {
				continue
			}
			k, v, _ := strings.Cut(pair, "=")
			info.Options[k] = v
		}
	}

	userinfo, hostpart := rest, ""
	if at := strings.IndexByte(rest, '@'); at >= 0 {
		userinfo, hostpart = rest[:at], rest[at+1:]
	} else {
		userinfo, hostpart = "", rest
	}

	if userinfo != "" {
		user, pass, _ := strings.Cut(userinfo, "/")
		info.User, info.Password = user, pass
	}

	hostport, database, _ := strings.Cut(hostpart, "/")
	info.Database = database
	if hostport != "" {
		host, portStr, hasPort := strings.Cut(hostport, ":")
		info.Host = host
		if hasPort {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				raiseDatasourceError(sink, "bad port %q in %q", portStr, s)
				return nil
			}
			info.Port = port
		}
	}

	return info
}

func raiseDatasourceError(sink *Sink, format string, args ...any) {
	if sink != nil {
		sink.Raise("DATASOURCE-PARSE-ERROR", fmt.Sprintf(format, args...), nil, nil)
	}
}

// Connect opens the datasource. Only the "sqlite" driver is wired to
// an actual database/sql connection (backed by modernc.org/sqlite,
// the pure-Go driver present in the example pack's dependency
// surface) — every other driver name is accepted by the grammar but
// has no embedded implementation, since no other SQL driver appears
// anywhere in the retrieved examples to ground one on.
func (d *DatasourceInfo) Connect(sink *Sink) *sql.DB {
	switch d.Driver {
	case "sqlite", "sqlite3":
		path := d.Database
		if path == "" {
			path = ":memory:"
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			if sink != nil {
				sink.Raise("DATASOURCE-CONNECT-ERROR", err.Error(), nil, nil)
			}
			return nil
		}
		return db
	default:
		if sink != nil {
			sink.Raise("DATASOURCE-UNSUPPORTED-DRIVER", "no embedded driver for "+d.Driver, nil, nil)
		}
		return nil
	}
}

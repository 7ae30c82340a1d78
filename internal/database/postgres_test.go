package database

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcloro/conta-repository/internal"
	"github.com/blackcloro/conta-repository/internal/config"
	"github.com/blackcloro/conta-repository/pkg/logger"
)

func TestBuildDSN(t *testing.T) {
	testCases := []struct {
		name          string
		cfg           config.DBConfig
		expectedHost  string
		expectedQuery url.Values
	}{
		{
			name:          "Default target",
			cfg:           config.DBConfig{Host: "localhost", Port: 5432, Name: "banco", User: "postgres", Password: "postgres"},
			expectedHost:  "localhost:5432",
			expectedQuery: url.Values{"sslmode": {"disable"}},
		},
		{
			name:          "SSL and connect timeout",
			cfg:           config.DBConfig{Host: "db", Port: 6543, Name: "banco", User: "u", Password: "p", SSL: true, ConnectTimeout: 3 * time.Second},
			expectedHost:  "db:6543",
			expectedQuery: url.Values{"sslmode": {"require"}, "connect_timeout": {"3"}},
		},
		{
			name:          "Missing port and IPv6 host",
			cfg:           config.DBConfig{Host: "::1", Name: "banco", User: "u"},
			expectedHost:  "[::1]:5432",
			expectedQuery: url.Values{"sslmode": {"disable"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := url.Parse(BuildDSN(tc.cfg))
			require.NoError(t, err)

			assert.Equal(t, "postgres", parsed.Scheme)
			assert.Equal(t, tc.expectedHost, parsed.Host)
			assert.Equal(t, "/"+tc.cfg.Name, parsed.Path)
			assert.Equal(t, tc.cfg.User, parsed.User.Username())
			password, _ := parsed.User.Password()
			assert.Equal(t, tc.cfg.Password, password)
			assert.Equal(t, tc.expectedQuery, parsed.Query())
		})
	}
}

func TestNewConnectorEscapesCredentials(t *testing.T) {
	cfg := config.DBConfig{Host: "localhost", Port: 5432, Name: "banco", User: "post gres", Password: "pa:ss@wo/rd"}

	connector, err := NewConnector(cfg)
	require.NoError(t, err)

	assert.Equal(t, "localhost", connector.config.Host)
	assert.Equal(t, uint16(5432), connector.config.Port)
	assert.Equal(t, "banco", connector.config.Database)
	assert.Equal(t, "post gres", connector.config.User)
	assert.Equal(t, "pa:ss@wo/rd", connector.config.Password)
	assert.Nil(t, connector.config.TLSConfig)
}

func TestConnectFailureIsConnectionError(t *testing.T) {
	// Grab a free port and close it so nothing is listening.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	connector, err := NewConnector(config.DBConfig{
		Host: "127.0.0.1", Port: port, Name: "banco", User: "postgres", Password: "postgres",
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := connector.Connect(ctx)
	assert.Nil(t, conn)
	assert.True(t, errors.Is(err, internal.ErrConnection), "got %v", err)
}

func TestPgxLoggerDemotesDriverErrors(t *testing.T) {
	var buf bytes.Buffer
	logger.InitLogger("debug", &buf)
	t.Cleanup(func() { logger.InitLogger("info", nil) })

	l := pgxLogger{}
	data := map[string]interface{}{
		"sql": "conta_insert",
		"err": errors.New("duplicate key value violates unique constraint"),
	}
	l.Log(context.Background(), pgx.LogLevelError, "Exec", data)
	l.Log(context.Background(), pgx.LogLevelInfo, "Exec", map[string]interface{}{"sql": "conta_select"})
	l.Log(context.Background(), pgx.LogLevelNone, "Exec", data)

	out := buf.String()
	assert.NotContains(t, out, "level=ERROR")
	assert.Equal(t, 2, strings.Count(out, "level=DEBUG"))
	assert.Contains(t, out, "duplicate key value")
	assert.Contains(t, out, "component=pgx")

	buf.Reset()
	l.Log(context.Background(), pgx.LogLevelWarn, "Exec", data)
	assert.Contains(t, buf.String(), "level=WARN")
}

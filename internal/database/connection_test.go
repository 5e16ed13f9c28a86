package database

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"passcode-app/internal/config"
	"passcode-app/pkg/logger"
)

func TestNewWithConn_PingAndClose(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	// GORM пингует соединение при открытии.
	mock.ExpectPing()
	db, err := NewWithConn(conn, "test", logger.New(io.Discard, "test", "error"))
	require.NoError(t, err)

	mock.ExpectPing()
	require.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = db.Ping(context.Background())
	require.ErrorContains(t, err, "connection refused")

	mock.ExpectClose()
	require.NoError(t, db.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewConnection_NilConfig(t *testing.T) {
	_, err := NewConnection(context.Background(), nil, "test", logger.New(io.Discard, "test", "error"))
	require.Error(t, err)
}

func TestOrDefault(t *testing.T) {
	require.Equal(t, 25, orDefault(0, 25))
	require.Equal(t, 7, orDefault(7, 25))
	require.Equal(t, time.Minute, orDefault(time.Duration(0), time.Minute))
}

func TestConfigurePool(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	configurePool(conn, &config.DatabaseConfig{MaxOpenConns: 3})
	require.Equal(t, 3, conn.Stats().MaxOpenConnections)

	configurePool(conn, &config.DatabaseConfig{})
	require.Equal(t, defaultMaxOpenConns, conn.Stats().MaxOpenConnections)
}

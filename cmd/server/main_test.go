package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	postgresRepo "github.com/iho/creditledger/internal/adapter/repository/postgres"
	"github.com/iho/creditledger/internal/infrastructure/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "4000",
		HTTPReadTimeout:  5 * time.Second,
		HTTPWriteTimeout: 6 * time.Second,
		HTTPIdleTimeout:  7 * time.Second,
	}

	srv := newHTTPServer(cfg, http.NotFoundHandler())

	assert.Equal(t, ":4000", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 6*time.Second, srv.WriteTimeout)
	assert.Equal(t, 7*time.Second, srv.IdleTimeout)
}

func TestOutboxRepository(t *testing.T) {
	disabled := outboxRepository(&config.Config{OutboxEnabled: false}, nil)
	assert.IsType(t, &postgresRepo.NullOutboxRepository{}, disabled)

	enabled := outboxRepository(&config.Config{OutboxEnabled: true}, nil)
	assert.IsType(t, &postgresRepo.OutboxRepository{}, enabled)
}

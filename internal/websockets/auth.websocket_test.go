package websockets

import (
	"testing"

	"brightnest/internal/logger"
	"brightnest/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestSessionConstants(t *testing.T) {
	// A session entry must not outlive the token that opened it.
	assert.Equal(t, services.DefaultTokenTTL, SESSION_TTL)
	assert.Equal(t, "ws:", SESSION_KEY_PREFIX)
}

func TestUnregisterClient_UnauthenticatedSkipsSessionCache(t *testing.T) {
	manager := &Manager{
		hub: &Hub{clients: make(map[string]*Client)},
		log: logger.New("websockets"),
	}
	client := &Client{ID: "client-1", Status: STATUS_UNAUTHENTICATED, Manager: manager}
	manager.hub.clients[client.ID] = client

	// No session cache is configured here; an unauthenticated disconnect must
	// never reach it.
	manager.unregisterClient(client)

	assert.Empty(t, manager.hub.clients)
}

// Store/clear of authenticated sessions needs a real valkey client and is
// covered in integration tests.
func TestSessionStoreAndClear_Skipped(t *testing.T) {
	t.Skip("session cache round-trip requires a real valkey client")
}

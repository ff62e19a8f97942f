package websockets

import (
	"context"
	"strconv"
	"time"

	"brightnest/internal/database"
	"brightnest/internal/services"

	"github.com/google/uuid"
)

const (
	AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

	// Session entries live as long as the token that opened them.
	SESSION_KEY_PREFIX = "ws:"
	SESSION_TTL        = services.DefaultTokenTTL
)

// startAuthTimeout disconnects clients that never complete the auth
// handshake.
func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	go func() {
		time.Sleep(AUTH_HANDSHAKE_TIMEOUT)
		if c.Status != STATUS_UNAUTHENTICATED {
			return
		}

		log.Warn("Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID, "timeout", AUTH_HANDSHAKE_TIMEOUT)

		authTimeout := Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_AUTH_FAILURE,
			Channel:   "system",
			Action:    "authentication_timeout",
			Data:      map[string]any{"reason": "Authentication timeout"},
			Timestamp: time.Now(),
		}

		select {
		case c.send <- authTimeout:
			time.Sleep(100 * time.Millisecond)
		default:
		}

		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
		}
	}()
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	userID, err := c.Manager.authService.ValidateToken(token)
	if err != nil {
		log.Info("WebSocket token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	user, err := c.Manager.userRepo.GetByID(context.Background(), userID)
	if err != nil {
		log.Info("WebSocket user not found", "clientID", c.ID, "userID", userID)
		c.sendAuthFailure("User not found")
		return
	}
	if user.IsLocked() {
		log.Warn("Locked user attempted websocket auth", "clientID", c.ID, "userID", userID)
		c.sendAuthFailure("Account is locked")
		return
	}

	c.UserID = user.ID
	c.Status = STATUS_AUTHENTICATED
	c.Manager.storeSession(context.Background(), c.ID, user.ID)

	log.Info("Client authenticated successfully", "clientID", c.ID, "userID", c.UserID)

	c.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_SUCCESS,
		Channel:   "system",
		Action:    "authenticated",
		Data:      map[string]any{"userId": user.ID},
		Timestamp: time.Now(),
	}
}

// storeSession records an authenticated connection in the session cache so
// live sessions are inspectable across instances. Best effort; the connection
// stays up if the cache write fails.
func (m *Manager) storeSession(ctx context.Context, clientID string, userID int) {
	log := m.log.Function("storeSession")

	err := database.NewCacheBuilder(m.db.Cache.Session, clientID).
		WithPrefix(SESSION_KEY_PREFIX).
		WithValue(strconv.Itoa(userID)).
		WithTTL(SESSION_TTL).
		WithContext(ctx).
		Set()
	if err != nil {
		log.Warn("failed to store websocket session",
			"clientID", clientID, "userID", userID, "error", err)
	}
}

// clearSession drops the session entry when the connection goes away.
func (m *Manager) clearSession(ctx context.Context, clientID string) {
	log := m.log.Function("clearSession")

	err := database.NewCacheBuilder(m.db.Cache.Session, clientID).
		WithPrefix(SESSION_KEY_PREFIX).
		WithContext(ctx).
		Delete()
	if err != nil {
		log.Warn("failed to clear websocket session", "clientID", clientID, "error", err)
	}
}

func (c *Client) sendAuthFailure(reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	c.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   "system",
		Action:    "authentication_failed",
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	}

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}

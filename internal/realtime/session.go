package realtime

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"couple-scheduler/internal/auth"
	"couple-scheduler/internal/model"
)

type Verifier interface {
	Parse(raw string) (*auth.Claims, error)
}

// Session tracks which user a single connection is authenticated as and
// keeps the presence directory in step with it. Transports create one per
// connection and Close it when the connection ends.
type Session struct {
	presence Presence
	verify   Verifier
	conn     *Outbox
	log      *zap.Logger

	mu     sync.Mutex
	userID string
	closed bool
}

func NewSession(p Presence, v Verifier, conn *Outbox, log *zap.Logger) *Session {
	return &Session{presence: p, verify: v, conn: conn, log: log.With(zap.String("conn_id", conn.ID()))}
}

func (s *Session) Conn() *Outbox { return s.conn }

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Authenticate verifies token and binds the connection to its user. A
// failed attempt pushes auth-error and leaves any earlier binding intact.
// Authenticating again as a different user releases the old entry. A
// closed session never rejoins the directory.
func (s *Session) Authenticate(token string) (*auth.Claims, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("%w: session closed", model.ErrUnauthenticated)
	}

	claims, err := s.verify.Parse(token)
	if err != nil {
		s.conn.Push(Event{Kind: EventAuthError, Payload: AuthError{Error: "authentication failed"}})
		s.log.Debug("realtime auth failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", model.ErrUnauthenticated, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session closed", model.ErrUnauthenticated)
	}
	if s.userID != "" && s.userID != claims.UserID {
		s.presence.RemoveIfMatches(s.userID, s.conn)
	}
	s.userID = claims.UserID
	prev := s.presence.Upsert(claims.UserID, s.conn)
	s.mu.Unlock()

	if prev != nil && prev != Conn(s.conn) {
		s.log.Info("realtime connection replaced",
			zap.String("user_id", claims.UserID), zap.String("prev_conn_id", prev.ID()))
	}
	s.log.Info("realtime authenticated", zap.String("user_id", claims.UserID), zap.String("username", claims.Username))
	s.conn.Push(Event{Kind: EventAuthenticated, Payload: Authenticated{UserID: claims.UserID, Username: claims.Username}})
	return claims, nil
}

// Close removes the presence entry if this connection still owns it.
func (s *Session) Close() {
	s.mu.Lock()
	uid := s.userID
	s.userID = ""
	s.closed = true
	s.mu.Unlock()

	if uid != "" && s.presence.RemoveIfMatches(uid, s.conn) {
		s.log.Info("realtime disconnected", zap.String("user_id", uid))
	}
	s.conn.Close()
}

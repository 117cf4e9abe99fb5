package service

import (
	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

// Authenticate registers a session for the verified identity. A live
// session for the same user on another connection is superseded: its rooms
// are left, it receives an eviction signal and its transport is closed
// before the new session is registered. A connection that re-authenticates
// keeps its transport; whatever session it previously carried is released.
func (s *collabService) Authenticate(connID string, p domain.AuthenticatePayload) (*domain.AuthenticatedPayload, error) {
	ident, err := s.verifier.Verify(p)
	if err != nil {
		s.logger.Warnf("Authentication rejected for connection %s: %v", connID, err)
		return nil, domain.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if boundUser, ok := s.conns[connID]; ok {
		if bound, ok := s.sessions[boundUser]; ok && bound.ConnectionID == connID {
			s.releaseLocked(bound, "re-authenticated")
		} else {
			delete(s.conns, connID)
		}
	}
	if prior, ok := s.sessions[ident.UserID]; ok {
		s.evictLocked(prior, "superseded by a new connection")
	}

	now := s.now()
	sess := &domain.Session{
		UserID:       ident.UserID,
		ConnectionID: connID,
		DisplayName:  ident.DisplayName,
		AvatarRef:    ident.AvatarRef,
		Role:         ident.Role,
		ConnectedAt:  now,
		LastActiveAt: now,
		Presence:     domain.PresenceOnline,
		Rooms:        make(map[string]bool),
		TypingByRoom: make(map[string]bool),
	}
	s.sessions[ident.UserID] = sess
	s.conns[connID] = ident.UserID

	if err := s.roster.AddOnline(ident.UserID); err != nil {
		s.logger.Errorf("Failed to mirror user %s to online roster: %v", ident.UserID, err)
	}

	s.broadcastGlobalLocked(domain.Event{
		Type:    domain.EventUserConnected,
		Payload: sess.Info(),
	}, connID)

	s.logger.Infof("User %s authenticated on connection %s", ident.UserID, connID)

	return &domain.AuthenticatedPayload{
		Session:        sess.Info(),
		ConnectionID:   connID,
		ConnectedUsers: s.connectedUsersLocked(),
		ActiveRooms:    s.activeRoomIDsLocked(),
	}, nil
}

// GetSession returns a point-in-time copy of the session bound to a
// connection.
func (s *collabService) GetSession(connID string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.conns[connID]
	if !ok {
		return domain.Session{}, false
	}
	sess, ok := s.sessions[userID]
	if !ok || sess.ConnectionID != connID {
		return domain.Session{}, false
	}
	return sess.Clone(), true
}

// Disconnect unwinds all registrations for a connection. Unknown
// connections are a no-op so transport teardown can always call it.
func (s *collabService) Disconnect(connID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.conns[connID]
	if !ok {
		return
	}
	sess, ok := s.sessions[userID]
	if !ok || sess.ConnectionID != connID {
		delete(s.conns, connID)
		return
	}
	s.evictLocked(sess, reason)
}

// evictLocked removes a session: every joined room is left (with departure
// broadcasts and empty-room cleanup), the roster mirror is updated, the
// evicted connection is signalled and closed, and everyone else learns the
// user went offline.
func (s *collabService) evictLocked(sess *domain.Session, reason string) {
	s.unbindLocked(sess)

	s.sender.Send(sess.ConnectionID, domain.Event{
		Type:    domain.EventSessionEvicted,
		Payload: domain.SessionEvictedPayload{Reason: reason},
	})
	s.sender.CloseConnection(sess.ConnectionID)

	s.broadcastOfflineLocked(sess)

	s.logger.Infof("Session for user %s evicted: %s", sess.UserID, reason)
}

// releaseLocked unwinds a session without touching its transport, for a
// connection that stays open and rebinds to a new identity.
func (s *collabService) releaseLocked(sess *domain.Session, reason string) {
	s.unbindLocked(sess)
	s.broadcastOfflineLocked(sess)
	s.logger.Infof("Session for user %s released: %s", sess.UserID, reason)
}

func (s *collabService) unbindLocked(sess *domain.Session) {
	for roomID := range sess.Rooms {
		s.leaveRoomLocked(sess, roomID)
	}

	delete(s.sessions, sess.UserID)
	delete(s.conns, sess.ConnectionID)

	if err := s.roster.RemoveOnline(sess.UserID); err != nil {
		s.logger.Errorf("Failed to remove user %s from online roster: %v", sess.UserID, err)
	}
}

func (s *collabService) broadcastOfflineLocked(sess *domain.Session) {
	s.broadcastGlobalLocked(domain.Event{
		Type: domain.EventUserDisconnected,
		Payload: domain.PresenceBroadcastPayload{
			UserID:   sess.UserID,
			Presence: "offline",
		},
	}, sess.ConnectionID)
}

package service

import (
	"sync"
	"time"

	"github.com/SphrGhfri/collabhub_golang_nats/config"
	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
	"github.com/SphrGhfri/collabhub_golang_nats/internal/port"
	"github.com/SphrGhfri/collabhub_golang_nats/pkg/logger"
)

// collabService owns every registry: sessions by user, the connection
// index, and rooms with their bounded histories. One mutex serializes all
// mutations and snapshots; no state lives at module scope.
type collabService struct {
	cfg      config.Config
	sender   port.Sender
	verifier port.IdentityVerifier
	relay    port.EngineRelay
	roster   port.PresenceRoster
	logger   logger.Logger

	mu       sync.Mutex
	sessions map[string]*domain.Session // userID -> session
	conns    map[string]string          // connectionID -> userID
	rooms    map[string]*roomState      // roomID -> room + history

	now func() time.Time
}

type roomState struct {
	room    *domain.Room
	history []domain.Message
}

func NewCollabService(
	cfg config.Config,
	sender port.Sender,
	verifier port.IdentityVerifier,
	relay port.EngineRelay,
	roster port.PresenceRoster,
	logg logger.Logger,
) port.CollabService {
	return &collabService{
		cfg:      cfg,
		sender:   sender,
		verifier: verifier,
		relay:    relay,
		roster:   roster,
		logger:   logg,
		sessions: make(map[string]*domain.Session),
		conns:    make(map[string]string),
		rooms:    make(map[string]*roomState),
		now:      time.Now,
	}
}

// sessionLocked resolves a connection to its session and refreshes
// last-activity; any inbound event counts as activity.
func (s *collabService) sessionLocked(connID string) (*domain.Session, error) {
	userID, ok := s.conns[connID]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	sess, ok := s.sessions[userID]
	if !ok || sess.ConnectionID != connID {
		return nil, domain.ErrUnauthenticated
	}
	sess.LastActiveAt = s.now()
	return sess, nil
}

// broadcastRoomLocked fans an event out to every member's live connection.
// Members without one are silently skipped; a full peer queue drops the
// event for that peer only.
func (s *collabService) broadcastRoomLocked(rs *roomState, evt domain.Event, excludeUserID string) {
	for userID := range rs.room.Members {
		if userID == excludeUserID {
			continue
		}
		sess, ok := s.sessions[userID]
		if !ok {
			continue
		}
		if !s.sender.Send(sess.ConnectionID, evt) {
			s.logger.Debugf("Dropped %s for user %s in room %s", evt.Type, userID, rs.room.ID)
		}
	}
}

// broadcastGlobalLocked sends an event to every connected client except the
// excluded connection.
func (s *collabService) broadcastGlobalLocked(evt domain.Event, excludeConnID string) {
	for connID := range s.conns {
		if connID == excludeConnID {
			continue
		}
		if !s.sender.Send(connID, evt) {
			s.logger.Debugf("Dropped %s for connection %s", evt.Type, connID)
		}
	}
}

func (s *collabService) connectedUsersLocked() []domain.UserInfo {
	users := make([]domain.UserInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		users = append(users, sess.Info())
	}
	return users
}

func (s *collabService) activeRoomIDsLocked() []string {
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}

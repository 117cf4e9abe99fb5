package service

import (
	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

// JoinRoom adds the caller to a room, creating it on first join. The first
// join fixes kind and target; later joins reuse the room as created.
// Re-joining a room the caller already belongs to returns the current
// snapshot without a duplicate broadcast.
func (s *collabService) JoinRoom(connID string, p domain.JoinRoomPayload) (*domain.RoomSnapshot, error) {
	if p.RoomID == "" {
		return nil, domain.InvalidEventError("join_room requires roomId")
	}
	if !p.Kind.Valid() {
		return nil, domain.InvalidEventError("unknown room kind: " + string(p.Kind))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(connID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rs, ok := s.rooms[p.RoomID]
	if !ok {
		rs = &roomState{
			room: &domain.Room{
				ID:             p.RoomID,
				Kind:           p.Kind,
				TargetID:       p.TargetID,
				Members:        make(map[string]bool),
				CreatedAt:      now,
				LastActivityAt: now,
				Metadata:       make(map[string]interface{}),
			},
		}
		s.rooms[p.RoomID] = rs
		s.logger.Infof("Room %s created (kind=%s)", p.RoomID, p.Kind)
	}

	if rs.room.Members[sess.UserID] {
		return s.snapshotLocked(rs), nil
	}

	rs.room.Members[sess.UserID] = true
	rs.room.LastActivityAt = now
	sess.Rooms[p.RoomID] = true

	s.broadcastRoomLocked(rs, domain.Event{
		Type: domain.EventUserJoinedRoom,
		Payload: domain.RoomUserPayload{
			RoomID:      p.RoomID,
			UserID:      sess.UserID,
			DisplayName: sess.DisplayName,
		},
	}, sess.UserID)

	s.logger.Infof("User %s joined room %s", sess.UserID, p.RoomID)
	return s.snapshotLocked(rs), nil
}

// LeaveRoom removes the caller's membership. The last member leaving a
// non-workspace room deletes the room and its history.
func (s *collabService) LeaveRoom(connID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(connID)
	if err != nil {
		return err
	}

	rs, ok := s.rooms[roomID]
	if !ok || !rs.room.Members[sess.UserID] {
		return domain.NotAMemberError(roomID)
	}

	s.leaveRoomLocked(sess, roomID)
	return nil
}

// leaveRoomLocked unwinds one membership: room and session state, typing
// flag, cursor, departure broadcast, then empty-room cleanup.
func (s *collabService) leaveRoomLocked(sess *domain.Session, roomID string) {
	rs, ok := s.rooms[roomID]
	if !ok {
		delete(sess.Rooms, roomID)
		return
	}

	delete(rs.room.Members, sess.UserID)
	delete(sess.Rooms, roomID)
	delete(sess.TypingByRoom, roomID)
	if sess.Cursor != nil && sess.Cursor.RoomID == roomID {
		sess.Cursor = nil
	}

	s.broadcastRoomLocked(rs, domain.Event{
		Type: domain.EventUserLeftRoom,
		Payload: domain.RoomUserPayload{
			RoomID:      roomID,
			UserID:      sess.UserID,
			DisplayName: sess.DisplayName,
		},
	}, sess.UserID)

	if len(rs.room.Members) == 0 && rs.room.Kind != domain.RoomKindWorkspace {
		delete(s.rooms, roomID)
		s.logger.Infof("Room %s deleted (empty)", roomID)
	}
}

// snapshotLocked builds the join-time view: membership plus the history
// tail, capped at the configured snapshot limit.
func (s *collabService) snapshotLocked(rs *roomState) *domain.RoomSnapshot {
	members := make([]domain.UserInfo, 0, len(rs.room.Members))
	for userID := range rs.room.Members {
		if sess, ok := s.sessions[userID]; ok {
			members = append(members, sess.Info())
		}
	}

	limit := s.cfg.SnapshotLimit
	if limit <= 0 {
		limit = 50
	}
	start := 0
	if len(rs.history) > limit {
		start = len(rs.history) - limit
	}
	messages := make([]domain.Message, len(rs.history)-start)
	copy(messages, rs.history[start:])

	return &domain.RoomSnapshot{
		RoomID:    rs.room.ID,
		Kind:      rs.room.Kind,
		TargetID:  rs.room.TargetID,
		Members:   members,
		Messages:  messages,
		CreatedAt: rs.room.CreatedAt,
		Metadata:  rs.room.Metadata,
	}
}

package service

import (
	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

// SetPresence updates the caller's presence and notifies every user sharing
// a room with them, once per connection even when several rooms are shared.
func (s *collabService) SetPresence(connID string, presence domain.Presence) error {
	if !presence.Valid() {
		return domain.InvalidEventError("unknown presence state: " + string(presence))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(connID)
	if err != nil {
		return err
	}

	sess.Presence = presence

	evt := domain.Event{
		Type: domain.EventPresenceUpdate,
		Payload: domain.PresenceBroadcastPayload{
			UserID:   sess.UserID,
			Presence: presence,
		},
	}

	notified := make(map[string]bool)
	for roomID := range sess.Rooms {
		rs, ok := s.rooms[roomID]
		if !ok {
			continue
		}
		for userID := range rs.room.Members {
			if userID == sess.UserID || notified[userID] {
				continue
			}
			notified[userID] = true
			if peer, ok := s.sessions[userID]; ok {
				s.sender.Send(peer.ConnectionID, evt)
			}
		}
	}
	return nil
}

// SetTyping flips the caller's typing flag for a room and tells the other
// members. The sender never receives its own indicator.
func (s *collabService) SetTyping(connID, roomID string, isTyping bool) error {
	if roomID == "" {
		return domain.InvalidEventError("typing events require roomId")
	}

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

	sess.TypingByRoom[roomID] = isTyping

	s.broadcastRoomLocked(rs, domain.Event{
		Type: domain.EventTypingIndicator,
		Payload: domain.TypingIndicatorPayload{
			RoomID:      roomID,
			UserID:      sess.UserID,
			DisplayName: sess.DisplayName,
			IsTyping:    isTyping,
		},
	}, sess.UserID)

	return nil
}

// MoveCursor stores the caller's cursor position and relays it to the other
// room members together with the user's stable display color.
func (s *collabService) MoveCursor(connID string, p domain.CursorMovePayload) error {
	if p.RoomID == "" {
		return domain.InvalidEventError("cursor_move requires roomId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(connID)
	if err != nil {
		return err
	}

	rs, ok := s.rooms[p.RoomID]
	if !ok || !rs.room.Members[sess.UserID] {
		return domain.NotAMemberError(p.RoomID)
	}

	sess.Cursor = &domain.CursorState{RoomID: p.RoomID, X: p.X, Y: p.Y}

	s.broadcastRoomLocked(rs, domain.Event{
		Type: domain.EventCursorMove,
		Payload: domain.CursorBroadcastPayload{
			RoomID:      p.RoomID,
			UserID:      sess.UserID,
			DisplayName: sess.DisplayName,
			X:           p.X,
			Y:           p.Y,
			Color:       domain.UserColor(sess.UserID),
		},
	}, sess.UserID)

	return nil
}

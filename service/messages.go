package service

import (
	"github.com/google/uuid"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

// SendMessage appends a message to the room history and fans it out to
// every member's live connection. Non-members are rejected.
func (s *collabService) SendMessage(connID string, p domain.SendMessagePayload) (*domain.Message, error) {
	if p.RoomID == "" {
		return nil, domain.InvalidEventError("send_message requires roomId")
	}
	if !p.Kind.Valid() {
		return nil, domain.InvalidEventError("unknown message kind: " + string(p.Kind))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(connID)
	if err != nil {
		return nil, err
	}

	rs, ok := s.rooms[p.RoomID]
	if !ok || !rs.room.Members[sess.UserID] {
		return nil, domain.NotAMemberError(p.RoomID)
	}

	msg := domain.Message{
		ID:         uuid.NewString(),
		Kind:       p.Kind,
		RoomID:     p.RoomID,
		SenderID:   sess.UserID,
		SenderName: sess.DisplayName,
		Content:    p.Content,
		Metadata:   p.Metadata,
		Timestamp:  s.now(),
	}

	s.appendHistoryLocked(rs, msg)
	rs.room.LastActivityAt = msg.Timestamp

	s.broadcastRoomLocked(rs, domain.Event{
		Type:    domain.EventNewMessage,
		Payload: msg,
	}, "")

	return &msg, nil
}

// appendHistoryLocked keeps the history bounded: once over the limit the
// oldest entries are cut from the front.
func (s *collabService) appendHistoryLocked(rs *roomState, msg domain.Message) {
	limit := s.cfg.HistoryLimit
	if limit <= 0 {
		limit = 1000
	}
	rs.history = append(rs.history, msg)
	if len(rs.history) > limit {
		trimmed := make([]domain.Message, limit)
		copy(trimmed, rs.history[len(rs.history)-limit:])
		rs.history = trimmed
	}
}

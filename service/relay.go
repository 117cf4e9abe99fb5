package service

import (
	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

// RelayApprovalAction forwards an approval action: it is broadcast into the
// approval:{requestId} room when anyone is watching, and published to the
// external approval engine. Approval state itself is never evaluated here.
func (s *collabService) RelayApprovalAction(connID string, p domain.ApprovalActionPayload) error {
	if p.RequestID == "" || p.Action == "" {
		return domain.InvalidEventError("approval_action requires requestId and action")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(connID)
	if err != nil {
		return err
	}

	update := domain.ApprovalUpdatePayload{
		RequestID:   p.RequestID,
		Action:      p.Action,
		StageID:     p.StageID,
		Comment:     p.Comment,
		UserID:      sess.UserID,
		DisplayName: sess.DisplayName,
		Timestamp:   s.now(),
	}

	if rs, ok := s.rooms[domain.ApprovalRoomID(p.RequestID)]; ok {
		s.broadcastRoomLocked(rs, domain.Event{
			Type:    domain.EventApprovalUpdate,
			Payload: update,
		}, "")
	}

	if err := s.relay.PublishApprovalAction(update); err != nil {
		s.logger.Errorf("Failed to relay approval action for request %s: %v", p.RequestID, err)
	}

	return nil
}

// RelayDocumentChange forwards a document edit to the other room members
// and to the external document store, tagged with the sender identity and
// the caller-supplied version. No conflict resolution happens here.
func (s *collabService) RelayDocumentChange(connID string, p domain.DocumentChangePayload) error {
	if p.RoomID == "" || p.DocumentID == "" {
		return domain.InvalidEventError("document_change requires roomId and documentId")
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

	update := domain.DocumentUpdatePayload{
		RoomID:      p.RoomID,
		DocumentID:  p.DocumentID,
		Changes:     p.Changes,
		Version:     p.Version,
		UserID:      sess.UserID,
		DisplayName: sess.DisplayName,
		Timestamp:   s.now(),
	}

	s.broadcastRoomLocked(rs, domain.Event{
		Type:    domain.EventDocumentUpdate,
		Payload: update,
	}, sess.UserID)

	if err := s.relay.PublishDocumentChange(update); err != nil {
		s.logger.Errorf("Failed to relay document change for document %s: %v", p.DocumentID, err)
	}

	return nil
}

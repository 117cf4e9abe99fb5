package nats

import (
	"encoding/json"
	"fmt"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

// Subjects consumed by the external engines. The approval-workflow engine
// and the document store subscribe on their own side; this layer only
// publishes.
const (
	SubjectApprovalActions = "collab.approval.actions"
	SubjectDocumentChanges = "collab.document.changes"
)

// PublishApprovalAction forwards an approval action to the approval engine.
func (c *NATSClient) PublishApprovalAction(p domain.ApprovalUpdatePayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize approval action: %w", err)
	}

	return c.Conn.Publish(SubjectApprovalActions, data)
}

// PublishDocumentChange forwards a document change to the document store.
func (c *NATSClient) PublishDocumentChange(p domain.DocumentUpdatePayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize document change: %w", err)
	}

	return c.Conn.Publish(SubjectDocumentChanges, data)
}

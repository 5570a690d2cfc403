package messageapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
)

type MessageView struct {
	ID            string          `json:"id"`
	SenderID      string          `json:"sender_id"`
	SenderName    string          `json:"sender_name"`
	SenderType    models.UserRole `json:"sender_type"`
	ReceiverID    string          `json:"receiver_id,omitempty"`
	ReceiverName  string          `json:"receiver_name,omitempty"`
	ApplicationID string          `json:"application_id,omitempty"`
	Subject       string          `json:"subject"`
	Message       string          `json:"message"`
	IsPublic      bool            `json:"is_public"`
	IsRead        bool            `json:"is_read"`
	ReadAt        *time.Time      `json:"read_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

type MessageCreate struct {
	ReceiverID    string `json:"receiver_id" validate:"omitempty,uuid"`
	ApplicationID string `json:"application_id" validate:"omitempty,uuid"`
	Subject       string `json:"subject" validate:"max=200"`
	Message       string `json:"message" validate:"required,max=5000"`
	IsPublic      bool   `json:"is_public"`
}

func (r MessageCreate) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message must not be empty")
	}
	if !r.IsPublic && r.ReceiverID == "" {
		return errors.New("receiver_id is required for a private message")
	}
	return nil
}

type MessageFilter struct {
	apimodels.Pagination
	Type       string `json:"type"`        // all, public, private
	UnreadOnly bool   `json:"unread_only"`
}

const (
	MessageTypeAll     = "all"
	MessageTypePublic  = "public"
	MessageTypePrivate = "private"
)

func (r MessageFilter) Validate() error {
	switch r.Type {
	case "", MessageTypeAll, MessageTypePublic, MessageTypePrivate:
		return nil
	}
	return errors.New("type must be one of: all, public, private")
}

type UnreadCount struct {
	Total   int64 `json:"total"`
	Public  int64 `json:"public"`
	Private int64 `json:"private"`
}

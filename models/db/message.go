package dbmodels

import (
	"time"

	"github.com/lib/pq"
	messageapimodels "permit-workflow-backend/models/api/message"
)

type Message struct {
	BaseModel
	SenderID      string  `gorm:"type:varchar(36);index"`
	Sender        *User   `gorm:"foreignKey:SenderID"`
	ReceiverID    *string `gorm:"type:varchar(36);index"`
	Receiver      *User   `gorm:"foreignKey:ReceiverID"`
	ApplicationID *string `gorm:"type:varchar(36);index"`
	Subject       string  `gorm:"type:varchar(200)"`
	Message       string
	IsPublic      bool `gorm:"index"`
	ReadAt        *time.Time
	ReadBy        pq.StringArray `gorm:"type:text[]"`
}

func (r Message) IsReadBy(userID string) bool {
	if !r.IsPublic {
		return r.ReadAt != nil
	}
	for _, id := range r.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

func (r Message) ToModel(userID string) messageapimodels.MessageView {
	result := messageapimodels.MessageView{
		ID:        r.ID,
		SenderID:  r.SenderID,
		Subject:   r.Subject,
		Message:   r.Message,
		IsPublic:  r.IsPublic,
		IsRead:    r.IsReadBy(userID),
		ReadAt:    r.ReadAt,
		CreatedAt: r.CreatedAt,
	}
	if r.ReceiverID != nil {
		result.ReceiverID = *r.ReceiverID
	}
	if r.ApplicationID != nil {
		result.ApplicationID = *r.ApplicationID
	}
	if r.Sender != nil {
		result.SenderName = r.Sender.GetFullName()
		result.SenderType = r.Sender.UserType
	}
	if r.Receiver != nil {
		result.ReceiverName = r.Receiver.GetFullName()
	}
	return result
}

package dbmodels

import "permit-workflow-backend/models"

// PushEvent keeps websocket events for users that were offline at send time.
type PushEvent struct {
	BaseModel
	UserID string          `gorm:"type:varchar(36);index:idx_push_user"`
	Code   models.PushCode `gorm:"type:varchar(50)"`
	Msg    string
	Title  string
}

package dbmodels

import (
	"permit-workflow-backend/models"
	applicationapimodels "permit-workflow-backend/models/api/application"
)

type Document struct {
	BaseModel
	ApplicationID string              `gorm:"type:varchar(36);index"`
	FileName      string              `gorm:"type:varchar(255)"`
	FileType      string              `gorm:"type:varchar(255)"`
	FileSize      int64
	DocumentType  models.DocumentType `gorm:"type:varchar(50);index"`
	ObjectKey     string              `gorm:"type:varchar(255)"`
	FileHash      string              `gorm:"type:varchar(64);index"`
	UploadedBy    string              `gorm:"type:varchar(36)"`
}

func (r Document) ToModel() applicationapimodels.DocumentView {
	return applicationapimodels.DocumentView{
		ID:                r.ID,
		ApplicationID:     r.ApplicationID,
		FileName:          r.FileName,
		FileType:          r.FileType,
		FileSize:          r.FileSize,
		DocumentType:      r.DocumentType,
		DocumentTypeHuman: r.DocumentType.ToHuman(),
		FileHash:          r.FileHash,
		UploadedBy:        r.UploadedBy,
		UploadedAt:        r.CreatedAt,
	}
}

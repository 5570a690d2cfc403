package documentstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Document) (id string, err error)
	GetByID(id string) (rec *dbmodels.Document, err error)
	ListByApplication(applicationID string) (list []dbmodels.Document, err error)
	ExistsByHash(applicationID, fileHash string) (bool, error)
	DocumentTypes(applicationID string) (types []models.DocumentType, err error)
	Delete(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Document) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Document, error) {
	rec := dbmodels.Document{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByApplication(applicationID string) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = i.db.
		Where("application_id = ?", applicationID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ExistsByHash(applicationID, fileHash string) (bool, error) {
	var count int64
	err := i.db.Model(dbmodels.Document{}).
		Where("application_id = ?", applicationID).
		Where("file_hash = ?", fileHash).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) DocumentTypes(applicationID string) (types []models.DocumentType, err error) {
	err = i.db.Model(dbmodels.Document{}).
		Where("application_id = ?", applicationID).
		Distinct().
		Pluck("document_type", &types).
		Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Document{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.
		Delete(&rec).
		Error
}

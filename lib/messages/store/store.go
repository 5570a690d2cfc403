package messagestore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	messageapimodels "permit-workflow-backend/models/api/message"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Message) (id string, err error)
	GetByID(id string) (rec *dbmodels.Message, err error)
	List(userID string, filter messageapimodels.MessageFilter) (list []dbmodels.Message, err error)
	ListCount(userID string, filter messageapimodels.MessageFilter) (rowCount int64, err error)
	MarkPrivateRead(id, receiverID string, readAt time.Time) error
	MarkPublicRead(id, userID string) error
	UnreadPrivateCount(userID string) (count int64, err error)
	UnreadPublicCount(userID string) (count int64, err error)
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

func (i impl) Create(rec dbmodels.Message) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Message, error) {
	rec := dbmodels.Message{}
	err := i.db.
		Where("id = ?", id).
		Preload("Sender").
		Preload("Receiver").
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

func (i impl) List(userID string, filter messageapimodels.MessageFilter) (list []dbmodels.Message, err error) {
	list = []dbmodels.Message{}
	tx := i.db.Model(dbmodels.Message{})
	i.addFilter(tx, userID, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.Order("created_at desc").
		Preload("Sender").
		Preload("Receiver").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(userID string, filter messageapimodels.MessageFilter) (rowCount int64, err error) {
	tx := i.db.Model(dbmodels.Message{})
	i.addFilter(tx, userID, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) MarkPrivateRead(id, receiverID string, readAt time.Time) error {
	return i.db.Model(&dbmodels.Message{}).
		Where("id = ?", id).
		Where("receiver_id = ?", receiverID).
		Where("read_at is null").
		Update("read_at", readAt).
		Error
}

func (i impl) MarkPublicRead(id, userID string) error {
	return i.db.Model(&dbmodels.Message{}).
		Where("id = ?", id).
		Where("is_public = ?", true).
		Where("NOT (? = ANY(COALESCE(read_by, '{}')))", userID).
		Update("read_by", gorm.Expr("array_append(COALESCE(read_by, '{}'), ?)", userID)).
		Error
}

func (i impl) UnreadPrivateCount(userID string) (count int64, err error) {
	err = i.db.Model(dbmodels.Message{}).
		Where("is_public = ?", false).
		Where("receiver_id = ?", userID).
		Where("read_at is null").
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) UnreadPublicCount(userID string) (count int64, err error) {
	err = i.db.Model(dbmodels.Message{}).
		Where("is_public = ?", true).
		Where("sender_id <> ?", userID).
		Where("NOT (? = ANY(COALESCE(read_by, '{}')))", userID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Message{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) addFilter(tx *gorm.DB, userID string, filter messageapimodels.MessageFilter) {
	switch filter.Type {
	case messageapimodels.MessageTypePublic:
		tx.Where("is_public = ?", true)
	case messageapimodels.MessageTypePrivate:
		tx.Where("is_public = ?", false).
			Where("sender_id = ? or receiver_id = ?", userID, userID)
	default:
		tx.Where("is_public = ? or sender_id = ? or receiver_id = ?", true, userID, userID)
	}
	if filter.UnreadOnly {
		tx.Where("(is_public = ? and sender_id <> ? and NOT (? = ANY(COALESCE(read_by, '{}')))) or (is_public = ? and receiver_id = ? and read_at is null)",
			true, userID, userID, false, userID)
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}

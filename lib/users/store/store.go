package userstore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"permit-workflow-backend/models"
	userapimodels "permit-workflow-backend/models/api/user"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (id string, err error)
	GetByID(id string) (rec *dbmodels.User, err error)
	GetByUsername(username string) (rec *dbmodels.User, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(filter userapimodels.UserFilter) (list []dbmodels.User, err error)
	ListCount(filter userapimodels.UserFilter) (rowCount int64, err error)
	ActiveEmailsByRole(role models.UserRole) (emails []string, err error)
	ActiveIDsByRole(role models.UserRole) (ids []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
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

func (i impl) GetByUsername(username string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("username = ?", username).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", id).
		Updates(updMap)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return errors.New("record not found")
	}
	return nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.User{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) List(filter userapimodels.UserFilter) (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	tx := i.db.Model(dbmodels.User{})
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.Order("username").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter userapimodels.UserFilter) (rowCount int64, err error) {
	tx := i.db.Model(dbmodels.User{})
	i.addFilter(tx, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) ActiveEmailsByRole(role models.UserRole) (emails []string, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("user_type = ?", role).
		Where("is_active = ?", true).
		Where("email <> ''").
		Pluck("email", &emails).
		Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (i impl) ActiveIDsByRole(role models.UserRole) (ids []string, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("user_type = ?", role).
		Where("is_active = ?", true).
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (i impl) addFilter(tx *gorm.DB, filter userapimodels.UserFilter) {
	if filter.Search != "" {
		searchValue := "%" + strings.ToLower(filter.Search) + "%"
		tx.Where("LOWER(username) like ? or LOWER(email) like ? or LOWER(first_name || ' ' || last_name) like ?",
			searchValue, searchValue, searchValue)
	}
	if filter.UserType != "" {
		tx.Where("user_type = ?", filter.UserType)
	}
	if filter.IsActive != nil {
		tx.Where("is_active = ?", *filter.IsActive)
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}

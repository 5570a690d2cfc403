package activitylogstore

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ActivityLog) (id string, err error)
	GetByID(id string) (rec *dbmodels.ActivityLog, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(filter activitylogapimodels.ActivityLogFilter) (list []dbmodels.ActivityLog, err error)
	ListCount(filter activitylogapimodels.ActivityLogFilter) (rowCount int64, err error)
	ListAll(filter activitylogapimodels.ActivityLogFilter, maxRows int) (list []dbmodels.ActivityLog, err error)
	ListByApplication(applicationID string) (list []dbmodels.ActivityLog, err error)
	ListByDocument(documentID string) (list []dbmodels.ActivityLog, err error)
	CountBy(groupExpr string, from, to time.Time) (list []dbmodels.CountRow, err error)
	CountTotal(from, to time.Time) (count int64, err error)
	TopUsers(from, to time.Time, limit int) (list []dbmodels.UserCountRow, err error)
	UserActivityByRole(from, to time.Time) (list []dbmodels.RoleActivityRow, err error)
}

// Grouping expressions accepted by CountBy.
const (
	GroupByAction  = "action"
	GroupByRole    = "user_type"
	GroupByDay     = "TO_CHAR(created_at, 'YYYY-MM-DD')"
	GroupByHour    = "CAST(EXTRACT(HOUR FROM created_at) AS INTEGER)"
	GroupByWeekday = "CAST(EXTRACT(DOW FROM created_at) AS INTEGER)"
)

var allowedGroups = map[string]bool{
	GroupByAction:  true,
	GroupByRole:    true,
	GroupByDay:     true,
	GroupByHour:    true,
	GroupByWeekday: true,
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ActivityLog) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ActivityLog, error) {
	rec := dbmodels.ActivityLog{}
	err := i.db.
		Where("id = ?", id).
		Preload("Application").
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
		Model(&dbmodels.ActivityLog{}).
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
	rec := dbmodels.ActivityLog{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) List(filter activitylogapimodels.ActivityLogFilter) (list []dbmodels.ActivityLog, err error) {
	list = []dbmodels.ActivityLog{}
	tx := i.db.Model(dbmodels.ActivityLog{})
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.Order("activity_logs.created_at desc").
		Preload("Application").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter activitylogapimodels.ActivityLogFilter) (rowCount int64, err error) {
	tx := i.db.Model(dbmodels.ActivityLog{})
	i.addFilter(tx, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) ListAll(filter activitylogapimodels.ActivityLogFilter, maxRows int) (list []dbmodels.ActivityLog, err error) {
	list = []dbmodels.ActivityLog{}
	tx := i.db.Model(dbmodels.ActivityLog{})
	i.addFilter(tx, filter)
	err = tx.Order("activity_logs.created_at desc").
		Limit(maxRows).
		Preload("Application").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByApplication(applicationID string) (list []dbmodels.ActivityLog, err error) {
	list = []dbmodels.ActivityLog{}
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

func (i impl) ListByDocument(documentID string) (list []dbmodels.ActivityLog, err error) {
	list = []dbmodels.ActivityLog{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountBy(groupExpr string, from, to time.Time) (list []dbmodels.CountRow, err error) {
	if !allowedGroups[groupExpr] {
		return nil, errors.Errorf("unsupported grouping: %v", groupExpr)
	}
	list = []dbmodels.CountRow{}
	err = i.db.Model(dbmodels.ActivityLog{}).
		Select(groupExpr+" as key, count(*) as count").
		Where("created_at between ? and ?", from, to).
		Group(groupExpr).
		Order("count desc").
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountTotal(from, to time.Time) (count int64, err error) {
	err = i.db.Model(dbmodels.ActivityLog{}).
		Where("created_at between ? and ?", from, to).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) TopUsers(from, to time.Time, limit int) (list []dbmodels.UserCountRow, err error) {
	list = []dbmodels.UserCountRow{}
	err = i.db.Model(dbmodels.ActivityLog{}).
		Select("user_id, username, user_type, count(*) as count").
		Where("created_at between ? and ?", from, to).
		Where("user_id <> ''").
		Group("user_id, username, user_type").
		Order("count desc").
		Limit(limit).
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) UserActivityByRole(from, to time.Time) (list []dbmodels.RoleActivityRow, err error) {
	list = []dbmodels.RoleActivityRow{}
	err = i.db.Model(dbmodels.ActivityLog{}).
		Select("user_type, count(distinct user_id) as unique_users, count(*) as actions").
		Where("created_at between ? and ?", from, to).
		Group("user_type").
		Order("actions desc").
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter activitylogapimodels.ActivityLogFilter) {
	if filter.ApplicationStatus != "" {
		tx.Joins("JOIN applications ON applications.id = activity_logs.application_id").
			Where("applications.status = ?", filter.ApplicationStatus)
	}
	if filter.Search != "" {
		searchValue := "%" + strings.ToLower(filter.Search) + "%"
		tx.Where("LOWER(activity_logs.details) like ? or LOWER(activity_logs.username) like ? or LOWER(activity_logs.action) like ?",
			searchValue, searchValue, searchValue)
	}
	if filter.Action != "" {
		tx.Where("activity_logs.action = ?", filter.Action)
	}
	if filter.UserType != "" {
		tx.Where("activity_logs.user_type = ?", filter.UserType)
	}
	if filter.ApplicationID != "" {
		tx.Where("activity_logs.application_id = ?", filter.ApplicationID)
	}
	if filter.UserID != "" {
		tx.Where("activity_logs.user_id = ?", filter.UserID)
	}
	if filter.DateFrom != nil {
		tx.Where("activity_logs.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx.Where("activity_logs.created_at <= ?", *filter.DateTo)
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}

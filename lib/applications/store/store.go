package applicationstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"permit-workflow-backend/models"
	applicationapimodels "permit-workflow-backend/models/api/application"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Application) (id string, err error)
	GetByID(id string) (rec *dbmodels.Application, err error)
	GetDetail(id string) (rec *dbmodels.Application, err error)
	Update(id string, updMap map[string]interface{}) error
	// UpdateState applies updMap only while the row still has the expected stage and status.
	UpdateState(id string, stage int, status models.ApplicationStatus, updMap map[string]interface{}) (updated bool, err error)
	Delete(id string) error
	List(filter applicationapimodels.ApplicationFilter) (list []dbmodels.Application, err error)
	ListCount(filter applicationapimodels.ApplicationFilter) (rowCount int64, err error)
	ListAll(filter applicationapimodels.ApplicationFilter, maxRows int) (list []dbmodels.Application, err error)
	MaxNumberSuffix(column, prefix string) (seq int, err error)
	ListIdle(idleSince time.Time) (list []dbmodels.Application, err error)
	ListExpiring(until time.Time) (list []dbmodels.Application, err error)
	// MarkSent stamps a notification column without touching updated_at.
	MarkSent(id, column string, at time.Time) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Application) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.
		Where("id = ?", id).
		Preload("Creator").
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

func (i impl) GetDetail(id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.
		Where("id = ?", id).
		Preload("Creator").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Preload("Comments.User").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
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
		Model(&dbmodels.Application{}).
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

func (i impl) UpdateState(id string, stage int, status models.ApplicationStatus, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Where("current_stage = ?", stage).
		Where("status = ?", status).
		Updates(updMap)
	if err = tx.Error; err != nil {
		return false, err
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) Delete(id string) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).Delete(&dbmodels.WorkflowComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", id).Delete(&dbmodels.Document{}).Error; err != nil {
			return err
		}
		// audit rows and messages outlive the application
		err := tx.Model(&dbmodels.ActivityLog{}).
			Where("application_id = ?", id).
			Update("application_id", nil).
			Error
		if err != nil {
			return err
		}
		err = tx.Model(&dbmodels.Message{}).
			Where("application_id = ?", id).
			Update("application_id", nil).
			Error
		if err != nil {
			return err
		}
		rec := dbmodels.Application{
			BaseModel: dbmodels.BaseModel{ID: id},
		}
		return tx.Delete(&rec).Error
	})
}

func (i impl) List(filter applicationapimodels.ApplicationFilter) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	tx := i.db.Model(dbmodels.Application{})
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.Order(filter.Sort.OrderBy()).
		Preload("Creator").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter applicationapimodels.ApplicationFilter) (rowCount int64, err error) {
	tx := i.db.Model(dbmodels.Application{})
	i.addFilter(tx, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) ListAll(filter applicationapimodels.ApplicationFilter, maxRows int) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	tx := i.db.Model(dbmodels.Application{})
	i.addFilter(tx, filter)
	err = tx.Order(filter.Sort.OrderBy()).
		Limit(maxRows).
		Preload("Creator").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

var numberColumns = map[string]bool{
	"application_number": true,
	"permit_number":      true,
}

// MaxNumberSuffix returns the highest numeric suffix of column values starting with prefix.
func (i impl) MaxNumberSuffix(column, prefix string) (seq int, err error) {
	if !numberColumns[column] {
		return 0, errors.Errorf("unsupported number column: %v", column)
	}
	err = i.db.Model(dbmodels.Application{}).
		Select(fmt.Sprintf("COALESCE(MAX(CAST(SUBSTRING(%s FROM %d) AS INTEGER)), 0)", column, len(prefix)+1)).
		Where(fmt.Sprintf("%s LIKE ?", column), prefix+"%").
		Scan(&seq).
		Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func (i impl) ListIdle(idleSince time.Time) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.Model(dbmodels.Application{}).
		Where("status in (?)", []models.ApplicationStatus{models.AppStatusSubmitted, models.AppStatusUnderReview}).
		Where("updated_at < ?", idleSince).
		Where("reminder_sent_at is null or reminder_sent_at < ?", idleSince).
		Order("updated_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListExpiring(until time.Time) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.Model(dbmodels.Application{}).
		Where("status = ?", models.AppStatusApproved).
		Where("valid_until is not null and valid_until <= ?", until).
		Where("expiry_notice_sent_at is null").
		Preload("Creator").
		Order("valid_until").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

var sentColumns = map[string]bool{
	ReminderSentColumn:     true,
	ExpiryNoticeSentColumn: true,
}

const (
	ReminderSentColumn     = "reminder_sent_at"
	ExpiryNoticeSentColumn = "expiry_notice_sent_at"
)

func (i impl) MarkSent(id, column string, at time.Time) error {
	if !sentColumns[column] {
		return errors.Errorf("unsupported notification column: %v", column)
	}
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		UpdateColumn(column, at)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return errors.New("record not found")
	}
	return nil
}

func (i impl) addFilter(tx *gorm.DB, filter applicationapimodels.ApplicationFilter) {
	if filter.Search != "" {
		searchValue := "%" + strings.ToLower(filter.Search) + "%"
		tx.Where("LOWER(applicant_name) like ? or LOWER(application_number) like ? or LOWER(customer_account_number) like ? or LOWER(COALESCE(permit_number, '')) like ?",
			searchValue, searchValue, searchValue, searchValue)
	}
	if len(filter.Statuses) > 0 {
		tx.Where("status in (?)", filter.Statuses)
	}
	if len(filter.PermitTypes) > 0 {
		tx.Where("permit_type in (?)", filter.PermitTypes)
	}
	if len(filter.WaterSources) > 0 {
		tx.Where("water_source in (?)", filter.WaterSources)
	}
	if filter.CurrentStage > 0 {
		tx.Where("current_stage = ?", filter.CurrentStage)
	}
	if filter.CreatedBy != "" {
		tx.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.DateFrom != nil {
		tx.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx.Where("created_at <= ?", *filter.DateTo)
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}

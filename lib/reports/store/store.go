package reportstore

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	CountApplications(from, to time.Time) (count int64, err error)
	ApplicationsBy(groupExpr string, from, to time.Time) (list []dbmodels.CountRow, err error)
	ProcessingTime(startColumn string, from, to time.Time) (row dbmodels.DurationRow, err error)
	WaterAllocation(from, to time.Time, statuses []models.ApplicationStatus) (total float64, err error)
	CountNewUsers(from, to time.Time) (count int64, err error)
	CountDocuments(from, to time.Time) (count int64, err error)
	DocumentsByType(from, to time.Time) (list []dbmodels.CountRow, err error)
	CountComments(from, to time.Time) (count int64, err error)
	CommentsByUser(from, to time.Time) (list []dbmodels.CountRow, err error)
	TopCommentedApplications(from, to time.Time, limit int) (list []dbmodels.CountRow, err error)
}

const (
	GroupByStatus      = "status"
	GroupByPermitType  = "permit_type"
	GroupByWaterSource = "water_source"
	GroupByDay         = "TO_CHAR(created_at, 'YYYY-MM-DD')"

	FromCreated   = "created_at"
	FromSubmitted = "submitted_at"
)

var allowedGroups = map[string]bool{
	GroupByStatus:      true,
	GroupByPermitType:  true,
	GroupByWaterSource: true,
	GroupByDay:         true,
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CountApplications(from, to time.Time) (count int64, err error) {
	err = i.db.Model(dbmodels.Application{}).
		Where("created_at between ? and ?", from, to).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) ApplicationsBy(groupExpr string, from, to time.Time) (list []dbmodels.CountRow, err error) {
	if !allowedGroups[groupExpr] {
		return nil, errors.Errorf("unsupported grouping: %v", groupExpr)
	}
	order := "count desc"
	if groupExpr == GroupByDay {
		order = "key"
	}
	list = []dbmodels.CountRow{}
	err = i.db.Model(dbmodels.Application{}).
		Select(groupExpr+" as key, count(*) as count").
		Where("created_at between ? and ?", from, to).
		Group(groupExpr).
		Order(order).
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ProcessingTime measures hours from startColumn to approved_at for applications approved in the range.
func (i impl) ProcessingTime(startColumn string, from, to time.Time) (row dbmodels.DurationRow, err error) {
	if startColumn != FromCreated && startColumn != FromSubmitted {
		return row, errors.Errorf("unsupported column: %v", startColumn)
	}
	hours := fmt.Sprintf("EXTRACT(EPOCH FROM (approved_at - %s)) / 3600", startColumn)
	err = i.db.Model(dbmodels.Application{}).
		Select(fmt.Sprintf("COALESCE(AVG(%[1]s), 0) as avg_hours, COALESCE(MIN(%[1]s), 0) as min_hours, COALESCE(MAX(%[1]s), 0) as max_hours, count(*) as count", hours)).
		Where("approved_at between ? and ?", from, to).
		Where(startColumn + " is not null").
		Scan(&row).
		Error
	if err != nil {
		return dbmodels.DurationRow{}, err
	}
	return row, nil
}

func (i impl) WaterAllocation(from, to time.Time, statuses []models.ApplicationStatus) (total float64, err error) {
	tx := i.db.Model(dbmodels.Application{}).
		Select("COALESCE(SUM(water_allocation), 0)").
		Where("created_at between ? and ?", from, to)
	if len(statuses) > 0 {
		tx.Where("status in (?)", statuses)
	}
	err = tx.Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (i impl) CountNewUsers(from, to time.Time) (count int64, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("created_at between ? and ?", from, to).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) CountDocuments(from, to time.Time) (count int64, err error) {
	err = i.db.Model(dbmodels.Document{}).
		Where("created_at between ? and ?", from, to).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) DocumentsByType(from, to time.Time) (list []dbmodels.CountRow, err error) {
	list = []dbmodels.CountRow{}
	err = i.db.Model(dbmodels.Document{}).
		Select("document_type as key, count(*) as count").
		Where("created_at between ? and ?", from, to).
		Group("document_type").
		Order("count desc").
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountComments(from, to time.Time) (count int64, err error) {
	err = i.db.Model(dbmodels.WorkflowComment{}).
		Where("created_at between ? and ?", from, to).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) CommentsByUser(from, to time.Time) (list []dbmodels.CountRow, err error) {
	list = []dbmodels.CountRow{}
	err = i.db.Model(dbmodels.WorkflowComment{}).
		Select("users.username as key, count(*) as count").
		Joins("JOIN users ON users.id = workflow_comments.user_id").
		Where("workflow_comments.created_at between ? and ?", from, to).
		Group("users.username").
		Order("count desc").
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) TopCommentedApplications(from, to time.Time, limit int) (list []dbmodels.CountRow, err error) {
	list = []dbmodels.CountRow{}
	err = i.db.Model(dbmodels.WorkflowComment{}).
		Select("applications.application_number as key, count(*) as count").
		Joins("JOIN applications ON applications.id = workflow_comments.application_id").
		Where("workflow_comments.created_at between ? and ?", from, to).
		Group("applications.application_number").
		Order("count desc").
		Limit(limit).
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

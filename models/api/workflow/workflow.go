package workflowapimodels

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"permit-workflow-backend/models"
)

const (
	MaxCommentLength             = 500
	MinTechnicalAssessmentLength = 20
)

type TransitionRequest struct {
	Comment string `json:"comment"` // comment or reason, required for reject, return and technical review
}

func (r TransitionRequest) Validate() error {
	if utf8.RuneCountInString(r.Comment) > MaxCommentLength {
		return errors.Errorf("comment must not exceed %v characters", MaxCommentLength)
	}
	return nil
}

func (r TransitionRequest) Text() string {
	return strings.TrimSpace(r.Comment)
}

type TransitionResult struct {
	ApplicationID string                   `json:"application_id"`
	Status        models.ApplicationStatus `json:"status"`
	CurrentStage  int                      `json:"current_stage"`
	PermitNumber  string                   `json:"permit_number,omitempty"`
}

type CommentCreate struct {
	Comment string `json:"comment"`
}

func (r CommentCreate) Validate() error {
	text := strings.TrimSpace(r.Comment)
	if text == "" {
		return errors.New("comment must not be empty")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return errors.Errorf("comment must not exceed %v characters", MaxCommentLength)
	}
	return nil
}

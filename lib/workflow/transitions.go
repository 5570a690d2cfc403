package workflowhandler

import (
	"permit-workflow-backend/models"
)

type Action string

const (
	ActionSubmit          Action = "submit"
	ActionForward         Action = "forward"
	ActionTechnicalReview Action = "technical_review"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionReturn          Action = "return"
)

const (
	technicalAssessmentPrefix = "TECHNICAL ASSESSMENT: "
	defaultApprovalComment    = "Application approved by Manyame Catchment Chairperson"
)

type transition struct {
	action     Action
	fromStage  int
	fromStatus models.ApplicationStatus
	toStage    int
	toStatus   models.ApplicationStatus
	logAction  models.ActivityAction
}

var transitions = []transition{
	{ActionSubmit, models.StageOfficer, models.AppStatusUnsubmitted, models.StageChairperson, models.AppStatusSubmitted, models.ActionAppSubmitted},
	{ActionForward, models.StageChairperson, models.AppStatusSubmitted, models.StageCatchmentManager, models.AppStatusUnderReview, models.ActionAppForwarded},
	{ActionTechnicalReview, models.StageCatchmentManager, models.AppStatusUnderReview, models.StageCatchmentChairperson, models.AppStatusUnderReview, models.ActionTechnicalReview},
	{ActionApprove, models.StageCatchmentChairperson, models.AppStatusUnderReview, models.StageCatchmentChairperson, models.AppStatusApproved, models.ActionAppApproved},
	{ActionReject, models.StageCatchmentChairperson, models.AppStatusUnderReview, models.StageCatchmentChairperson, models.AppStatusRejected, models.ActionAppRejected},
	{ActionReturn, models.StageChairperson, models.AppStatusSubmitted, models.StageOfficer, models.AppStatusUnsubmitted, models.ActionAppReturned},
	{ActionReturn, models.StageCatchmentManager, models.AppStatusUnderReview, models.StageOfficer, models.AppStatusUnsubmitted, models.ActionAppReturned},
	{ActionReturn, models.StageCatchmentChairperson, models.AppStatusUnderReview, models.StageOfficer, models.AppStatusUnsubmitted, models.ActionAppReturned},
}

func findTransition(action Action, stage int, status models.ApplicationStatus) (transition, bool) {
	for _, t := range transitions {
		if t.action == action && t.fromStage == stage && t.fromStatus == status {
			return t, true
		}
	}
	return transition{}, false
}

// owner is the role that performs the transition.
func (t transition) owner() models.UserRole {
	role, _ := models.StageOwner(t.fromStage)
	return role
}

// allowed reports whether the actor may perform the transition. ICT acts for any stage owner.
func (t transition) allowed(actor models.Actor) bool {
	return actor.IsIct() || actor.Role == t.owner()
}

func (t transition) isTerminal() bool {
	return t.toStatus.IsTerminal()
}

func (t transition) valid() bool {
	return t.fromStatus.ValidForStage(t.fromStage) && t.toStatus.ValidForStage(t.toStage)
}

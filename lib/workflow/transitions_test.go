package workflowhandler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"permit-workflow-backend/models"
)

func TestTransitionTable(t *testing.T) {
	t.Run("every transition keeps stage and status consistent", func(t *testing.T) {
		for _, tr := range transitions {
			require.True(t, tr.valid(), "%v from stage %d", tr.action, tr.fromStage)
		}
	})
	t.Run("forward actions advance one stage", func(t *testing.T) {
		for _, tr := range transitions {
			if tr.isTerminal() || tr.action == ActionReturn {
				continue
			}
			require.Equal(t, tr.fromStage+1, tr.toStage, tr.action)
		}
	})
	t.Run("decisions stay at the last stage", func(t *testing.T) {
		for _, tr := range transitions {
			if !tr.isTerminal() {
				continue
			}
			require.Equal(t, models.StageCatchmentChairperson, tr.toStage, tr.action)
			require.Equal(t, models.StageCatchmentChairperson, tr.fromStage, tr.action)
		}
	})
	t.Run("return always lands at the officer", func(t *testing.T) {
		for _, tr := range transitions {
			if tr.action != ActionReturn {
				continue
			}
			require.Equal(t, models.StageOfficer, tr.toStage)
			require.Equal(t, models.AppStatusUnsubmitted, tr.toStatus)
		}
	})
}

func TestFindTransition(t *testing.T) {
	t.Run("submit from draft", func(t *testing.T) {
		tr, ok := findTransition(ActionSubmit, models.StageOfficer, models.AppStatusUnsubmitted)
		require.True(t, ok)
		require.Equal(t, models.PermittingOfficerRole, tr.owner())
	})
	t.Run("approve needs last stage", func(t *testing.T) {
		_, ok := findTransition(ActionApprove, models.StageCatchmentManager, models.AppStatusUnderReview)
		require.False(t, ok)
	})
	t.Run("decided application cannot move", func(t *testing.T) {
		for _, action := range []Action{ActionApprove, ActionReject, ActionReturn} {
			_, ok := findTransition(action, models.StageCatchmentChairperson, models.AppStatusApproved)
			require.False(t, ok, action)
		}
	})
	t.Run("officer cannot return", func(t *testing.T) {
		_, ok := findTransition(ActionReturn, models.StageOfficer, models.AppStatusUnsubmitted)
		require.False(t, ok)
	})
	t.Run("return is owned by the current stage", func(t *testing.T) {
		tr, ok := findTransition(ActionReturn, models.StageCatchmentManager, models.AppStatusUnderReview)
		require.True(t, ok)
		require.True(t, tr.allowed(models.Actor{Role: models.CatchmentManagerRole}))
		require.False(t, tr.allowed(models.Actor{Role: models.ChairpersonRole}))
		require.True(t, tr.allowed(models.Actor{Role: models.IctRole}))
	})
}

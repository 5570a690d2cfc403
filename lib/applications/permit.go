package applicationshandler

import (
	"fmt"

	"github.com/pkg/errors"
	pdfexport "permit-workflow-backend/lib/export/pdf"
	"permit-workflow-backend/lib/permit"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"
)

func (i impl) PrintPermit(actor models.Actor, id string) (body []byte, fileName string, hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, "", "", errors.Wrap(err, "failed to get application")
	}
	if rec == nil {
		return nil, "", "application not found", nil
	}
	if rec.Status != models.AppStatusApproved {
		return nil, "", "permit is available only for approved applications", nil
	}
	if !actor.Role.IsOverseer() && !rec.IsCreator(actor.UserID) {
		return nil, "", "you are not allowed to print this permit", nil
	}
	body, err = pdfexport.GeneratePermit(permit.BuildPermit(*rec))
	if err != nil {
		return nil, "", "", errors.Wrap(err, "failed to generate permit")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionPermitPrinted,
		fmt.Sprintf("Printed permit %v for application %v", rec.GetPermitNumber(), rec.ApplicationNumber)).
		ForApplication(id))
	return body, fmt.Sprintf("permit_%v.pdf", rec.GetPermitNumber()), "", nil
}

package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/config"
	"permit-workflow-backend/db"
	"permit-workflow-backend/lib/smtp"
	userstore "permit-workflow-backend/lib/users/store"
	"permit-workflow-backend/lib/utils/helpers"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	ApplicationSubmitted(app dbmodels.Application, actor models.Actor) error
	// PendingReview tells the owners of stage that the application waits for them.
	PendingReview(app dbmodels.Application, actor models.Actor, stage int, comment string) error
	ApplicationApproved(app dbmodels.Application, actor models.Actor, comment string, permitPDF []byte) error
	ApplicationRejected(app dbmodels.Application, actor models.Actor, reason string) error
	ApplicationReturned(app dbmodels.Application, actor models.Actor, reason string) error
	Reminder(app dbmodels.Application, idle time.Duration) error
	PermitExpiry(app dbmodels.Application) error
	SystemAlert(subject, details string)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		userStore: userstore.NewInstance(db.DB),
		mailer:    smtp.Instance,
	}
	initchecker.CheckInit(
		"mailer", instance.mailer,
	)
	Instance = instance
}

type impl struct {
	userStore userstore.Provider
	mailer    smtp.Provider
}

type templateData struct {
	ApplicationNumber string
	ApplicantName     string
	PermitType        string
	WaterSource       string
	Allocation        string
	StageName         string
	ActorName         string
	ActorRole         string
	Comment           string
	PermitNumber      string
	ValidUntil        string
	IdleHours         int
	Link              string
	Subject           string
	Details           string
}

func newTemplateData(app dbmodels.Application, actor models.Actor) templateData {
	data := templateData{
		ApplicationNumber: app.ApplicationNumber,
		ApplicantName:     app.ApplicantName,
		PermitType:        app.PermitType.ToHuman(),
		WaterSource:       app.WaterSource.ToHuman(),
		Allocation:        fmt.Sprintf("%.2f", app.WaterAllocation),
		StageName:         models.StageName(app.CurrentStage),
		ActorName:         actor.Username,
		ActorRole:         actor.Role.ToHuman(),
		PermitNumber:      app.GetPermitNumber(),
		Link:              applicationLink(app.ID),
	}
	if app.ValidUntil != nil {
		data.ValidUntil = app.ValidUntil.Format("02 January 2006")
	}
	return data
}

const defaultSystemURL = "http://localhost:3000"

func applicationLink(applicationID string) string {
	base := defaultSystemURL
	if config.Conf != nil && config.Conf.Notification.SystemURL != "" {
		base = config.Conf.Notification.SystemURL
	}
	return strings.TrimRight(base, "/") + "/applications/" + applicationID
}

// quote keeps multi-line text inside a markdown blockquote.
func quote(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", "\n> ")
}

func (i impl) ApplicationSubmitted(app dbmodels.Application, actor models.Actor) error {
	data := newTemplateData(app, actor)
	return i.send(tplSubmitted, data, i.stageRecipients(models.StageChairperson), nil)
}

func (i impl) PendingReview(app dbmodels.Application, actor models.Actor, stage int, comment string) error {
	data := newTemplateData(app, actor)
	data.StageName = models.StageName(stage)
	data.Comment = quote(comment)
	return i.send(tplPending, data, i.stageRecipients(stage), nil)
}

func (i impl) ApplicationApproved(app dbmodels.Application, actor models.Actor, comment string, permitPDF []byte) error {
	data := newTemplateData(app, actor)
	data.Comment = quote(comment)
	var attachments []smtp.Attachment
	if len(permitPDF) > 0 {
		attachments = append(attachments, smtp.Attachment{
			FileName: fmt.Sprintf("permit_%v.pdf", app.GetPermitNumber()),
			Body:     permitPDF,
		})
	}
	return i.send(tplApproved, data, i.officeRecipients(app), attachments)
}

func (i impl) ApplicationRejected(app dbmodels.Application, actor models.Actor, reason string) error {
	data := newTemplateData(app, actor)
	data.Comment = quote(reason)
	return i.send(tplRejected, data, i.officeRecipients(app), nil)
}

func (i impl) ApplicationReturned(app dbmodels.Application, actor models.Actor, reason string) error {
	data := newTemplateData(app, actor)
	data.Comment = quote(reason)
	return i.send(tplReturned, data, i.officeRecipients(app), nil)
}

func (i impl) Reminder(app dbmodels.Application, idle time.Duration) error {
	data := newTemplateData(app, models.SystemActor())
	data.IdleHours = int(idle.Hours())
	return i.send(tplReminder, data, i.stageRecipients(app.CurrentStage), nil)
}

func (i impl) PermitExpiry(app dbmodels.Application) error {
	data := newTemplateData(app, models.SystemActor())
	return i.send(tplExpiry, data, i.officeRecipients(app), nil)
}

func (i impl) SystemAlert(subject, details string) {
	data := templateData{
		Subject: subject,
		Details: "```\n" + details + "\n```",
	}
	recipients := []string{}
	if config.Conf != nil {
		recipients = append(recipients, config.Conf.Notification.IctEmail)
	}
	recipients = append(recipients, i.roleEmails(models.IctRole)...)
	if err := i.send(tplAlert, data, helpers.Unique(recipients), nil); err != nil {
		log.WithError(err).Error("failed to send system alert")
	}
}

// stageRecipients returns the configured stage address plus active users holding the stage role.
func (i impl) stageRecipients(stage int) []string {
	recipients := []string{}
	if config.Conf != nil {
		switch stage {
		case models.StageChairperson:
			recipients = append(recipients, config.Conf.Notification.Stage2Email)
		case models.StageCatchmentManager:
			recipients = append(recipients, config.Conf.Notification.Stage3Email)
		case models.StageCatchmentChairperson:
			recipients = append(recipients, config.Conf.Notification.Stage4Email)
		case models.StageOfficer:
			recipients = append(recipients, config.Conf.Notification.PermittingEmail)
		}
	}
	if role, ok := models.StageOwner(stage); ok {
		recipients = append(recipients, i.roleEmails(role)...)
	}
	return helpers.Unique(recipients)
}

// officeRecipients returns the permitting office plus the officer who created the application.
func (i impl) officeRecipients(app dbmodels.Application) []string {
	recipients := []string{}
	if config.Conf != nil {
		recipients = append(recipients, config.Conf.Notification.PermittingEmail)
	}
	if app.Creator != nil && app.Creator.IsActive {
		recipients = append(recipients, app.Creator.Email)
	}
	return helpers.Unique(recipients)
}

func (i impl) roleEmails(role models.UserRole) []string {
	if i.userStore == nil {
		return nil
	}
	emails, err := i.userStore.ActiveEmailsByRole(role)
	if err != nil {
		log.WithError(err).WithField("role", role).Error("failed to get recipients by role")
		return nil
	}
	return emails
}

func (i impl) send(templateName string, data templateData, recipients []string, attachments []smtp.Attachment) error {
	logger := log.WithField("template", templateName).
		WithField("application_number", data.ApplicationNumber).
		WithField("recipients", recipients)
	if config.Conf != nil && config.Conf.Notification.Enabled != nil && !*config.Conf.Notification.Enabled {
		logger.Debug("notifications are disabled")
		return nil
	}
	if !i.mailer.IsConfigured() {
		logger.Warn("notification skipped, smtp is not configured")
		return nil
	}
	if len(recipients) == 0 {
		logger.Warn("notification skipped, no recipients")
		return nil
	}
	subject, text, html, err := render(templateName, data)
	if err != nil {
		return errors.Wrap(err, "failed to render notification")
	}
	from := ""
	if config.Conf != nil {
		from = config.Conf.Smtp.From
	}
	err = i.mailer.SendHTML(smtp.Mail{
		From:        from,
		To:          recipients,
		Subject:     subject,
		HTML:        html,
		Text:        text,
		Attachments: attachments,
	})
	if err != nil {
		return errors.Wrap(err, "failed to send notification")
	}
	return nil
}

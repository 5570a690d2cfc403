package messageshandler

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"permit-workflow-backend/db"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	applicationstore "permit-workflow-backend/lib/applications/store"
	messagestore "permit-workflow-backend/lib/messages/store"
	pushhandler "permit-workflow-backend/lib/push"
	userstore "permit-workflow-backend/lib/users/store"
	"permit-workflow-backend/lib/utils/helpers"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/models"
	messageapimodels "permit-workflow-backend/models/api/message"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Send(actor models.Actor, data messageapimodels.MessageCreate) (id string, hMsg string, err error)
	List(actor models.Actor, filter messageapimodels.MessageFilter) (list []messageapimodels.MessageView, rowCount int64, err error)
	MarkAsRead(actor models.Actor, id string) (hMsg string, err error)
	UnreadCount(actor models.Actor) (result messageapimodels.UnreadCount, err error)
	Delete(actor models.Actor, id string) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:          messagestore.NewInstance(db.DB),
		userStore:      userstore.NewInstance(db.DB),
		appStore:       applicationstore.NewInstance(db.DB),
		push:           pushhandler.Instance,
		activityLogger: activityloghandler.Instance,
		now:            time.Now,
	}
	initchecker.CheckInit(
		"push", instance.push,
		"activityLogger", instance.activityLogger,
	)
	Instance = instance
}

type impl struct {
	store          messagestore.Provider
	userStore      userstore.Provider
	appStore       applicationstore.Provider
	push           pushhandler.Provider
	activityLogger activityloghandler.Provider
	now            func() time.Time
}

func (i impl) Send(actor models.Actor, data messageapimodels.MessageCreate) (id string, hMsg string, err error) {
	rec := dbmodels.Message{
		SenderID: actor.UserID,
		Subject:  strings.TrimSpace(data.Subject),
		Message:  strings.TrimSpace(data.Message),
		IsPublic: data.IsPublic,
	}
	if rec.Subject == "" {
		rec.Subject = "(no subject)"
	}
	if !data.IsPublic {
		if data.ReceiverID == actor.UserID {
			return "", "you cannot send a message to yourself", nil
		}
		receiver, err := i.userStore.GetByID(data.ReceiverID)
		if err != nil {
			return "", "", errors.Wrap(err, "failed to get receiver")
		}
		if receiver == nil || !receiver.IsActive {
			return "", "receiver not found or inactive", nil
		}
		rec.ReceiverID = helpers.StringPtr(data.ReceiverID)
	}
	if data.ApplicationID != "" {
		app, err := i.appStore.GetByID(data.ApplicationID)
		if err != nil {
			return "", "", errors.Wrap(err, "failed to get application")
		}
		if app == nil {
			return "", "application not found", nil
		}
		rec.ApplicationID = helpers.StringPtr(data.ApplicationID)
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to create message")
	}
	if rec.IsPublic {
		i.push.Broadcast(actor.UserID, models.PushNewMessage, actor.Username, rec.Subject)
	} else {
		i.push.SendNotification(data.ReceiverID, models.PushNewMessage, actor.Username, rec.Subject)
	}
	details := fmt.Sprintf("Sent message %q to %v", rec.Subject, "everyone")
	if !rec.IsPublic {
		details = fmt.Sprintf("Sent message %q to user %v", rec.Subject, data.ReceiverID)
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionMessageSent, details).
		ForApplication(data.ApplicationID))
	return id, "", nil
}

func (i impl) List(actor models.Actor, filter messageapimodels.MessageFilter) (list []messageapimodels.MessageView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(actor.UserID, filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []messageapimodels.MessageView{}, rowCount, nil
	}
	recList, err := i.store.List(actor.UserID, filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]messageapimodels.MessageView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel(actor.UserID))
	}
	return list, rowCount, nil
}

func (i impl) MarkAsRead(actor models.Actor, id string) (hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to get message")
	}
	if rec == nil {
		return "message not found", nil
	}
	if rec.IsPublic {
		if rec.IsReadBy(actor.UserID) {
			return "", nil
		}
		if err = i.store.MarkPublicRead(id, actor.UserID); err != nil {
			return "", errors.Wrap(err, "failed to mark message as read")
		}
		return "", nil
	}
	if rec.ReceiverID == nil || *rec.ReceiverID != actor.UserID {
		return "only the receiver can mark this message as read", nil
	}
	if rec.ReadAt != nil {
		return "", nil
	}
	if err = i.store.MarkPrivateRead(id, actor.UserID, i.now()); err != nil {
		return "", errors.Wrap(err, "failed to mark message as read")
	}
	return "", nil
}

func (i impl) UnreadCount(actor models.Actor) (result messageapimodels.UnreadCount, err error) {
	result.Private, err = i.store.UnreadPrivateCount(actor.UserID)
	if err != nil {
		return messageapimodels.UnreadCount{}, errors.Wrap(err, "failed to count private messages")
	}
	result.Public, err = i.store.UnreadPublicCount(actor.UserID)
	if err != nil {
		return messageapimodels.UnreadCount{}, errors.Wrap(err, "failed to count public messages")
	}
	result.Total = result.Private + result.Public
	return result, nil
}

func (i impl) Delete(actor models.Actor, id string) (hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to get message")
	}
	if rec == nil {
		return "message not found", nil
	}
	if rec.SenderID != actor.UserID && !actor.IsIct() {
		return "only the sender can delete this message", nil
	}
	if err = i.store.Delete(id); err != nil {
		return "", errors.Wrap(err, "failed to delete message")
	}
	return "", nil
}

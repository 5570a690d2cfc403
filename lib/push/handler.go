package pushhandler

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/db"
	pushdatastore "permit-workflow-backend/lib/push/data-store"
	userstore "permit-workflow-backend/lib/users/store"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	connectionhub "permit-workflow-backend/lib/ws/hub/connection-hub"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"
	wsmodels "permit-workflow-backend/models/ws"
)

type Provider interface {
	// SendNotification pushes to a connected user or keeps the event until the next connect.
	SendNotification(userID string, code models.PushCode, args ...any)
	SendToRole(role models.UserRole, code models.PushCode, args ...any)
	Broadcast(exceptUserID string, code models.PushCode, args ...any)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		userStore: userstore.NewInstance(db.DB),
		dataStore: pushdatastore.NewInstance(db.DB),
		hub:       connectionhub.Instance,
	}
	initchecker.CheckInit(
		"userStore", instance.userStore,
		"dataStore", instance.dataStore,
		"hub", instance.hub,
	)
	Instance = instance
}

type impl struct {
	userStore userstore.Provider
	dataStore pushdatastore.Provider
	hub       connectionhub.Provider
}

func (i impl) getLogger(userID string, code models.PushCode) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("event_code", code)
}

func formatPush(code models.PushCode, args ...any) (title, msg string) {
	tpl, ok := models.PushCodeMap[code]
	if !ok {
		return string(code), fmt.Sprint(args...)
	}
	return tpl.Title, fmt.Sprintf(tpl.Msg, args...)
}

func (i impl) SendNotification(userID string, code models.PushCode, args ...any) {
	if userID == "" {
		return
	}
	logger := i.getLogger(userID, code)
	title, msg := formatPush(code, args...)
	if i.hub.IsConnected(userID) {
		i.hub.SendMessage(wsmodels.ServerMessage{
			ToUserID: userID,
			Time:     time.Now().Format(time.RFC3339),
			Code:     string(code),
			Msg:      msg,
		})
		return
	}
	err := i.dataStore.Create(dbmodels.PushEvent{
		UserID: userID,
		Code:   code,
		Title:  title,
		Msg:    msg,
	})
	if err != nil {
		logger.WithError(err).Error("failed to store push event")
	}
}

func (i impl) SendToRole(role models.UserRole, code models.PushCode, args ...any) {
	ids, err := i.userStore.ActiveIDsByRole(role)
	if err != nil {
		log.WithField("user_type", role).WithError(err).Error("failed to get role users for push")
		return
	}
	for _, userID := range ids {
		i.SendNotification(userID, code, args...)
	}
}

func (i impl) Broadcast(exceptUserID string, code models.PushCode, args ...any) {
	_, msg := formatPush(code, args...)
	i.hub.Broadcast(exceptUserID, wsmodels.ServerMessage{
		Time: time.Now().Format(time.RFC3339),
		Code: string(code),
		Msg:  msg,
	})
}

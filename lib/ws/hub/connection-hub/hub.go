package connectionhub

import (
	"sync"

	"permit-workflow-backend/db"
	pushdatastore "permit-workflow-backend/lib/push/data-store"
	wsmodels "permit-workflow-backend/models/ws"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string, conn *websocket.Conn)
	SendMessage(msg wsmodels.ServerMessage)
	Broadcast(exceptUserID string, msg wsmodels.ServerMessage)
	SendClose(userID string)
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = &impl{
		clients: map[string]*clientSession{},
		store:   pushdatastore.NewInstance(db.DB),
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]*clientSession // by user id
	store   pushdatastore.Provider
}

// DeleteClient removes the session only when it still belongs to conn.
func (i *impl) DeleteClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	sess, ok := i.clients[userID]
	if !ok || sess.conn != conn {
		i.mu.Unlock()
		return
	}
	delete(i.clients, userID)
	i.mu.Unlock()
	sess.stop()
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	i.clients[userID] = newSession(conn)
	i.mu.Unlock()
	if ok {
		oldSess.stop()
	}
	go i.sendDelayedMessages(userID)
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	i.mu.RLock()
	sess, ok := i.clients[msg.ToUserID]
	i.mu.RUnlock()
	if ok {
		sess.push(msg)
	}
}

func (i *impl) Broadcast(exceptUserID string, msg wsmodels.ServerMessage) {
	i.mu.RLock()
	sessions := make([]*clientSession, 0, len(i.clients))
	for userID, sess := range i.clients {
		if userID == exceptUserID {
			continue
		}
		sessions = append(sessions, sess)
	}
	i.mu.RUnlock()
	for _, sess := range sessions {
		sess.push(msg)
	}
}

func (i *impl) SendClose(userID string) {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if !ok || sess.conn == nil || sess.conn.Conn == nil {
		return false
	}
	return true
}

func (i *impl) sendDelayedMessages(userID string) {
	logger := log.WithField("user_id", userID)
	list, err := i.store.List(userID)
	if err != nil {
		logger.WithError(err).Error("failed to load pending push events")
		return
	}
	sentIDs := []string{}
	for _, item := range list {
		if !i.IsConnected(userID) {
			break
		}
		i.SendMessage(wsmodels.ServerMessage{
			ToUserID: userID,
			Time:     item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Code:     string(item.Code),
			Msg:      item.Msg,
		})
		sentIDs = append(sentIDs, item.ID)
	}
	if len(sentIDs) > 0 {
		if err = i.store.Delete(sentIDs); err != nil {
			logger.WithError(err).Error("failed to delete delivered push events")
		}
	}
}

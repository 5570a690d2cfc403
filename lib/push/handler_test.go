package pushhandler

import (
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
	pushdatastore "permit-workflow-backend/lib/push/data-store"
	userstore "permit-workflow-backend/lib/users/store"
	connectionhub "permit-workflow-backend/lib/ws/hub/connection-hub"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"
	wsmodels "permit-workflow-backend/models/ws"
)

type fakeHub struct {
	connectionhub.Provider
	online    map[string]bool
	sent      []wsmodels.ServerMessage
	broadcast []wsmodels.ServerMessage
	except    string
}

func (f *fakeHub) IsConnected(userID string) bool {
	return f.online[userID]
}

func (f *fakeHub) SendMessage(msg wsmodels.ServerMessage) {
	f.sent = append(f.sent, msg)
}

func (f *fakeHub) Broadcast(exceptUserID string, msg wsmodels.ServerMessage) {
	f.except = exceptUserID
	f.broadcast = append(f.broadcast, msg)
}

func (f *fakeHub) AddClient(string, *websocket.Conn) {}

type fakeDataStore struct {
	pushdatastore.Provider
	created []dbmodels.PushEvent
}

func (f *fakeDataStore) Create(rec dbmodels.PushEvent) error {
	f.created = append(f.created, rec)
	return nil
}

type fakeUserStore struct {
	userstore.Provider
	byRole map[models.UserRole][]string
}

func (f fakeUserStore) ActiveIDsByRole(role models.UserRole) ([]string, error) {
	return f.byRole[role], nil
}

func newTestHandler(online ...string) (impl, *fakeHub, *fakeDataStore) {
	hub := &fakeHub{online: map[string]bool{}}
	for _, id := range online {
		hub.online[id] = true
	}
	store := &fakeDataStore{}
	users := fakeUserStore{byRole: map[models.UserRole][]string{
		models.ChairpersonRole: {"u-online", "u-offline"},
	}}
	return impl{userStore: users, dataStore: store, hub: hub}, hub, store
}

func TestSendNotification(t *testing.T) {
	t.Run("connected user gets the event right away", func(t *testing.T) {
		handler, hub, store := newTestHandler("u1")
		handler.SendNotification("u1", models.PushApplicationReturned, "MC2026-001", "chair")
		require.Len(t, hub.sent, 1)
		require.Empty(t, store.created)
		require.Equal(t, "u1", hub.sent[0].ToUserID)
		require.Equal(t, string(models.PushApplicationReturned), hub.sent[0].Code)
		require.Equal(t, "Application MC2026-001 was returned to the permitting officer by chair.", hub.sent[0].Msg)
	})
	t.Run("offline user event is stored", func(t *testing.T) {
		handler, hub, store := newTestHandler()
		handler.SendNotification("u1", models.PushNewMessage, "officer", "hello")
		require.Empty(t, hub.sent)
		require.Len(t, store.created, 1)
		require.Equal(t, "u1", store.created[0].UserID)
		require.Equal(t, "New message", store.created[0].Title)
		require.Equal(t, "New message from officer: hello", store.created[0].Msg)
	})
	t.Run("empty user is ignored", func(t *testing.T) {
		handler, hub, store := newTestHandler()
		handler.SendNotification("", models.PushNewMessage, "officer", "hello")
		require.Empty(t, hub.sent)
		require.Empty(t, store.created)
	})
}

func TestSendToRole(t *testing.T) {
	handler, hub, store := newTestHandler("u-online")
	handler.SendToRole(models.ChairpersonRole, models.PushApplicationPending, "MC2026-002", "stage 2")
	require.Len(t, hub.sent, 1)
	require.Equal(t, "u-online", hub.sent[0].ToUserID)
	require.Len(t, store.created, 1)
	require.Equal(t, "u-offline", store.created[0].UserID)

	handler.SendToRole(models.CatchmentManagerRole, models.PushApplicationPending, "MC2026-002", "stage 3")
	require.Len(t, hub.sent, 1)
	require.Len(t, store.created, 1)
}

func TestBroadcast(t *testing.T) {
	handler, hub, _ := newTestHandler()
	handler.Broadcast("sender", models.PushNewMessage, "officer", "notice")
	require.Len(t, hub.broadcast, 1)
	require.Equal(t, "sender", hub.except)
	require.Equal(t, "New message from officer: notice", hub.broadcast[0].Msg)
	require.Empty(t, hub.broadcast[0].ToUserID)
}

func TestFormatPush(t *testing.T) {
	title, msg := formatPush(models.PushCode("unknown"), "a", "b")
	require.Equal(t, "unknown", title)
	require.Equal(t, "ab", msg)
}

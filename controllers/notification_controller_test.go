package controller

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"testing"

	"estatedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationApp(t *testing.T) (*testEnv, *models.User, *models.User) {
	t.Helper()
	env := newTestEnv(t)

	me := &models.User{Email: "me@example.com", PasswordHash: "x", Name: "Me", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, env.DB.Create(me).Error)
	other := &models.User{Email: "other@example.com", PasswordHash: "x", Name: "Other", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, env.DB.Create(other).Error)

	nc := NewNotificationController(env.DB, log.New(io.Discard, "", 0))
	group := env.App.Group("/notifications", asUser(me))
	group.Get("/", nc.GetNotifications)
	group.Get("/unread-count", nc.GetUnreadCount)
	group.Patch("/read-all", nc.MarkAllRead)
	group.Patch("/:id/read", nc.MarkRead)

	return env, me, other
}

func seedNotification(t *testing.T, env *testEnv, recipientID uint, read bool) *models.Notification {
	t.Helper()
	row := &models.Notification{
		RecipientID: recipientID,
		Title:       "Test",
		Message:     "test message",
		Type:        models.NotificationNewLead,
		Read:        read,
	}
	require.NoError(t, env.DB.Create(row).Error)
	if read {
		require.NoError(t, env.DB.Model(row).Update("read", true).Error)
	}
	return row
}

func TestGetNotificationsScopedToRecipient(t *testing.T) {
	env, me, other := newNotificationApp(t)
	seedNotification(t, env, me.ID, false)
	seedNotification(t, env, me.ID, true)
	seedNotification(t, env, other.ID, false)

	resp, err := env.App.Test(jsonRequest(t, http.MethodGet, "/notifications/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.EqualValues(t, 2, payload["total"])

	resp, err = env.App.Test(jsonRequest(t, http.MethodGet, "/notifications/?unread=true", nil))
	require.NoError(t, err)
	payload = decodeBody(t, resp)
	assert.EqualValues(t, 1, payload["total"])
}

func TestMarkReadOwnershipEnforced(t *testing.T) {
	env, me, other := newNotificationApp(t)
	mine := seedNotification(t, env, me.ID, false)
	theirs := seedNotification(t, env, other.ID, false)

	resp, err := env.App.Test(jsonRequest(t, http.MethodPatch, fmt.Sprintf("/notifications/%d/read", mine.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded models.Notification
	require.NoError(t, env.DB.First(&reloaded, mine.ID).Error)
	assert.True(t, reloaded.Read)

	// Someone else's notification is invisible, not forbidden
	resp, err = env.App.Test(jsonRequest(t, http.MethodPatch, fmt.Sprintf("/notifications/%d/read", theirs.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMarkAllRead(t *testing.T) {
	env, me, other := newNotificationApp(t)
	seedNotification(t, env, me.ID, false)
	seedNotification(t, env, me.ID, false)
	otherRow := seedNotification(t, env, other.ID, false)

	resp, err := env.App.Test(jsonRequest(t, http.MethodPatch, "/notifications/read-all", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var unread int64
	env.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", me.ID, false).Count(&unread)
	assert.Zero(t, unread)

	// The other recipient's rows are untouched
	var reloaded models.Notification
	require.NoError(t, env.DB.First(&reloaded, otherRow.ID).Error)
	assert.False(t, reloaded.Read)
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalender/model"
)

func TestAddNotificationDedup(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))

	reminder := model.Notification{
		RecipientID:   ada.UserID,
		Type:          model.NotificationUpcomingTask,
		Message:       "due soon",
		RelatedItemID: "task-1",
	}
	first, created, err := h.svc.AddNotification(h.ctx, reminder)
	require.NoError(t, err)
	require.True(t, created)
	assert.NotEmpty(t, first.NotificationID)
	assert.False(t, first.IsRead)

	_, created, err = h.svc.AddNotification(h.ctx, reminder)
	require.NoError(t, err)
	assert.False(t, created, "same reminder on the same day")

	other := reminder
	other.RelatedItemID = "task-2"
	_, created, err = h.svc.AddNotification(h.ctx, other)
	require.NoError(t, err)
	assert.True(t, created)

	h.clock.Advance(24 * time.Hour)
	_, created, err = h.svc.AddNotification(h.ctx, reminder)
	require.NoError(t, err)
	assert.True(t, created, "a new day allows the reminder again")

	follow := model.Notification{RecipientID: ada.UserID, Type: model.NotificationNewFollower, Message: "hi"}
	for i := 0; i < 2; i++ {
		_, created, err = h.svc.AddNotification(h.ctx, follow)
		require.NoError(t, err)
		assert.True(t, created, "other types are never deduplicated")
	}

	_, _, err = h.svc.AddNotification(h.ctx, model.Notification{Type: model.NotificationNewFollower})
	assert.ErrorIs(t, err, ErrBadArguments)
}

func TestNotificationsNewestFirstAndUnreadCount(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	bob := h.register(t, "Bob", "bob", date(1985, time.March, 3))
	carol := h.register(t, "Carol", "carol", date(1979, time.July, 7))

	require.NoError(t, h.svc.Follow(h.ctx, bob.UserID, ada.UserID))
	h.clock.Advance(time.Minute)
	require.NoError(t, h.svc.Follow(h.ctx, carol.UserID, ada.UserID))

	list, err := h.svc.Notifications(h.ctx, ada.UserID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, carol.UserID, list[0].TriggerUserID)
	assert.Equal(t, bob.UserID, list[1].TriggerUserID)

	count, err := h.svc.UnreadCount(h.ctx, ada.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.ErrorIs(t, h.svc.MarkNotificationAsRead(h.ctx, bob.UserID, list[0].NotificationID), ErrForbidden)
	require.NoError(t, h.svc.MarkNotificationAsRead(h.ctx, ada.UserID, list[0].NotificationID))

	count, err = h.svc.UnreadCount(h.ctx, ada.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.ErrorIs(t, h.svc.DeleteNotification(h.ctx, ada.UserID, "missing"), ErrNotFound)
}

func TestMarkAllKeepsPendingInvitations(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	bob := h.register(t, "Bob", "bob", date(1985, time.March, 3))

	require.NoError(t, h.svc.Follow(h.ctx, bob.UserID, ada.UserID))
	h.createList(t, bob.UserID, "Shared", model.VisibilityPrivate, ada.UserID)

	removed, err := h.svc.MarkAllNotificationsAsRead(h.ctx, ada.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	left, err := h.store.ListNotifications(h.ctx, ada.UserID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.True(t, left[0].IsPendingInvitation())
}

func TestAcceptInvitation(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	bob := h.register(t, "Bob", "bob", date(1985, time.March, 3))
	list := h.createList(t, bob.UserID, "Shared", model.VisibilityPrivate, ada.UserID)

	invite := h.notifications(t, ada.UserID, model.NotificationInvitation)
	require.Len(t, invite, 1)

	assert.ErrorIs(t, h.svc.AcceptInvitation(h.ctx, bob.UserID, invite[0].NotificationID), ErrForbidden)
	require.NoError(t, h.svc.AcceptInvitation(h.ctx, ada.UserID, invite[0].NotificationID))

	got, err := h.store.GetTaskList(h.ctx, list.ListID)
	require.NoError(t, err)
	assert.Equal(t, []string{ada.UserID}, got.SharedWith)
	assert.Empty(t, h.notifications(t, ada.UserID, model.NotificationInvitation))

	responses := h.notifications(t, bob.UserID, model.NotificationInvitationResponse)
	require.Len(t, responses, 1)
	assert.Equal(t, ada.UserID, responses[0].TriggerUserID)
	assert.Equal(t, list.ListID, responses[0].RelatedItemID)
	assert.Equal(t, "/tasks?list="+list.ListID, responses[0].LinkTo)
	assert.Contains(t, responses[0].Message, "accepted")

	sent, err := h.svc.InviteUser(h.ctx, bob.UserID, list.ListID, ada.UserID)
	require.NoError(t, err)
	assert.False(t, sent, "members are not invited again")

	_, err = h.svc.AddTask(h.ctx, ada.UserID, list.ListID, taskRequest("Shared chore", date(2026, time.October, 30)))
	assert.NoError(t, err, "accepted invitees can add tasks")
}

func TestDeclineInvitation(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	bob := h.register(t, "Bob", "bob", date(1985, time.March, 3))
	list := h.createList(t, bob.UserID, "Shared", model.VisibilityPrivate, ada.UserID)

	invite := h.notifications(t, ada.UserID, model.NotificationInvitation)
	require.Len(t, invite, 1)
	require.NoError(t, h.svc.DeclineInvitation(h.ctx, ada.UserID, invite[0].NotificationID))

	got, err := h.store.GetTaskList(h.ctx, list.ListID)
	require.NoError(t, err)
	assert.Empty(t, got.SharedWith)

	responses := h.notifications(t, bob.UserID, model.NotificationInvitationResponse)
	require.Len(t, responses, 1)
	assert.Contains(t, responses[0].Message, "declined")
	assert.Empty(t, responses[0].LinkTo)

	sent, err := h.svc.InviteUser(h.ctx, bob.UserID, list.ListID, ada.UserID)
	require.NoError(t, err)
	assert.True(t, sent, "a declined invitee can be invited again")
}

func TestAnswerInvitationForDeletedList(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	bob := h.register(t, "Bob", "bob", date(1985, time.March, 3))
	list := h.createList(t, bob.UserID, "Gone soon", model.VisibilityPrivate, ada.UserID)
	require.NoError(t, h.svc.DeleteTaskList(h.ctx, bob.UserID, list.ListID))

	invite := h.notifications(t, ada.UserID, model.NotificationInvitation)
	require.Len(t, invite, 1)
	require.NoError(t, h.svc.AcceptInvitation(h.ctx, ada.UserID, invite[0].NotificationID))

	assert.Empty(t, h.notifications(t, ada.UserID, model.NotificationInvitation))
	assert.Empty(t, h.notifications(t, bob.UserID, model.NotificationInvitationResponse))
}

func TestAnswerMalformedInvitation(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))

	n, _, err := h.svc.AddNotification(h.ctx, model.Notification{
		RecipientID: ada.UserID,
		Type:        model.NotificationNewFollower,
		Message:     "not an invitation",
	})
	require.NoError(t, err)

	require.NoError(t, h.svc.AcceptInvitation(h.ctx, ada.UserID, n.NotificationID))
	_, err = h.store.GetNotification(h.ctx, n.NotificationID)
	assert.ErrorIs(t, err, ErrNotFound)
}

package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalender/dto"
	"kalender/model"
)

func TestRegister(t *testing.T) {
	h := newHarness(t)

	u := h.register(t, "Ada Lovelace", "ada", date(1990, time.December, 10))
	assert.True(t, u.IsVerified)
	assert.Equal(t, "https://picsum.photos/seed/ada@example.com/128/128", u.AvatarURL)
	assert.Empty(t, u.Following)
	assert.Empty(t, u.Followers)
	assert.NotEqual(t, "secret123", u.Password)

	t.Run("email conflict is reported first", func(t *testing.T) {
		_, err := h.svc.Register(h.ctx, dto.SignupRequest{
			Name: "Other", Email: "ada@example.com", Username: "ada",
			DateOfBirth: date(1991, time.May, 1), Password: "secret123", ConfirmPassword: "secret123",
		})
		require.ErrorIs(t, err, ErrAlreadyExists)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("username conflict", func(t *testing.T) {
		_, err := h.svc.Register(h.ctx, dto.SignupRequest{
			Name: "Other", Email: "other@example.com", Username: "ada",
			DateOfBirth: date(1991, time.May, 1), Password: "secret123", ConfirmPassword: "secret123",
		})
		require.ErrorIs(t, err, ErrAlreadyExists)
		assert.Contains(t, err.Error(), "username")
	})

	t.Run("invalid input", func(t *testing.T) {
		cases := []dto.SignupRequest{
			{Name: "A", Email: "a@example.com", Username: "abc", DateOfBirth: date(1990, 1, 1), Password: "secret123", ConfirmPassword: "secret123"},
			{Name: "Abc", Email: "not-an-email", Username: "abc", DateOfBirth: date(1990, 1, 1), Password: "secret123", ConfirmPassword: "secret123"},
			{Name: "Abc", Email: "a@example.com", Username: "a b", DateOfBirth: date(1990, 1, 1), Password: "secret123", ConfirmPassword: "secret123"},
			{Name: "Abc", Email: "a@example.com", Username: "abc", Password: "secret123", ConfirmPassword: "secret123"},
			{Name: "Abc", Email: "a@example.com", Username: "abc", DateOfBirth: date(1990, 1, 1), Password: "12345", ConfirmPassword: "12345"},
			{Name: "Abc", Email: "a@example.com", Username: "abc", DateOfBirth: date(1990, 1, 1), Password: "secret123", ConfirmPassword: "secret124"},
		}
		for _, req := range cases {
			_, err := h.svc.Register(h.ctx, req)
			assert.ErrorIs(t, err, ErrBadArguments, "%+v", req)
		}
	})
}

func TestLoginRefreshLogout(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))

	_, _, err := h.svc.Login(h.ctx, dto.SigninRequest{Identifier: "nobody", Password: "secret123"})
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = h.svc.Login(h.ctx, dto.SigninRequest{Identifier: "ada", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrUnauthorized)

	user, pair, err := h.svc.Login(h.ctx, dto.SigninRequest{Identifier: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, ada.UserID, user.UserID)

	userID, err := h.svc.Tokens().ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ada.UserID, userID)

	rotated, err := h.svc.Refresh(h.ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = h.svc.Refresh(h.ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized, "old refresh token is replaced on rotation")

	_, err = h.svc.Refresh(h.ctx, rotated.AccessToken)
	require.ErrorIs(t, err, ErrUnauthorized, "access tokens are not refresh tokens")

	require.NoError(t, h.svc.Logout(h.ctx, ada.UserID))
	_, err = h.svc.Refresh(h.ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestFollowUnfollow(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	bob := h.register(t, "Bob", "bob", date(1985, time.March, 3))

	require.ErrorIs(t, h.svc.Follow(h.ctx, ada.UserID, ada.UserID), ErrBadArguments)
	require.ErrorIs(t, h.svc.Follow(h.ctx, ada.UserID, "missing"), ErrNotFound)

	require.NoError(t, h.svc.Follow(h.ctx, ada.UserID, bob.UserID))
	require.NoError(t, h.svc.Follow(h.ctx, ada.UserID, bob.UserID))

	following, err := h.svc.Following(h.ctx, ada.UserID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.UserID, following[0].UserID)

	followers, err := h.svc.Followers(h.ctx, bob.UserID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, ada.UserID, followers[0].UserID)

	notes := h.notifications(t, bob.UserID, model.NotificationNewFollower)
	require.Len(t, notes, 1, "repeat follow does not notify again")
	assert.Equal(t, ada.UserID, notes[0].TriggerUserID)
	assert.Equal(t, "/profile/"+ada.UserID, notes[0].LinkTo)
	assert.False(t, notes[0].IsRead)

	require.NoError(t, h.svc.Unfollow(h.ctx, ada.UserID, bob.UserID))
	following, err = h.svc.Following(h.ctx, ada.UserID)
	require.NoError(t, err)
	assert.Empty(t, following)
	followers, err = h.svc.Followers(h.ctx, bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestSearchAndListUsers(t *testing.T) {
	h := newHarness(t)
	h.register(t, "Ada Lovelace", "ada", date(1990, time.December, 10))
	h.register(t, "Bob Builder", "bob", date(1985, time.March, 3))

	got, err := h.svc.SearchUsers(h.ctx, "LOVE")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ada", got[0].Username)

	got, err = h.svc.SearchUsers(h.ctx, "example.com")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = h.svc.SearchUsers(h.ctx, "  ")
	assert.ErrorIs(t, err, ErrBadArguments)

	all, err := h.svc.ListUsers(h.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	h.register(t, "Bob", "bob", date(1985, time.March, 3))

	updated, err := h.svc.UpdateProfile(h.ctx, ada.UserID, dto.UpdateProfileRequest{
		Name:  "Ada King",
		Email: "ada.king@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", updated.Name)
	assert.Equal(t, ada.AvatarURL, updated.AvatarURL, "avatar kept when not provided")
	require.NotNil(t, updated.DateOfBirth)
	assert.True(t, ada.DateOfBirth.Equal(*updated.DateOfBirth))

	_, err = h.svc.UpdateProfile(h.ctx, ada.UserID, dto.UpdateProfileRequest{Name: "Ada", Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = h.svc.UpdateProfile(h.ctx, ada.UserID, dto.UpdateProfileRequest{Name: "Ada", Email: "ada@example.com", AvatarURL: "not a url"})
	assert.ErrorIs(t, err, ErrBadArguments)
}

func TestProfileShowsPublicLists(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	public := h.createList(t, ada.UserID, "Reading", model.VisibilityPublic)
	h.createList(t, ada.UserID, "Diary", model.VisibilityPrivate)

	user, lists, err := h.svc.Profile(h.ctx, ada.UserID)
	require.NoError(t, err)
	assert.Equal(t, ada.UserID, user.UserID)
	require.Len(t, lists, 1)
	assert.Equal(t, public.ListID, lists[0].ListID)
}

func TestDeleteAccount(t *testing.T) {
	h := newHarness(t)
	ada := h.register(t, "Ada", "ada", date(1990, time.December, 10))
	bob := h.register(t, "Bob", "bob", date(1985, time.March, 3))

	require.NoError(t, h.svc.Follow(h.ctx, ada.UserID, bob.UserID))
	require.NoError(t, h.svc.Follow(h.ctx, bob.UserID, ada.UserID))

	adaList := h.createList(t, ada.UserID, "Ada's", model.VisibilityPrivate)
	task := h.addTask(t, ada.UserID, adaList.ListID, "Write notes", date(2026, time.October, 20), "")

	bobList := h.createList(t, bob.UserID, "Bob's", model.VisibilityPrivate, ada.UserID)
	invitation := h.notifications(t, ada.UserID, model.NotificationInvitation)
	require.Len(t, invitation, 1)
	require.NoError(t, h.svc.AcceptInvitation(h.ctx, ada.UserID, invitation[0].NotificationID))

	require.NoError(t, h.svc.DeleteAccount(h.ctx, ada.UserID))

	_, err := h.svc.GetUser(h.ctx, ada.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.store.GetTaskList(h.ctx, adaList.ListID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.store.GetTask(h.ctx, task.TaskID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := h.store.GetTaskList(h.ctx, bobList.ListID)
	require.NoError(t, err)
	assert.Empty(t, list.SharedWith)

	b, err := h.svc.GetUser(h.ctx, bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, b.Following)
	assert.Empty(t, b.Followers)

	left, err := h.store.ListNotifications(h.ctx, ada.UserID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	h := newHarness(t)
	h.register(t, "Ada", "ada", date(1990, time.December, 10))
	_, pair, err := h.svc.Login(h.ctx, dto.SigninRequest{Identifier: "ada", Password: "secret123"})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.svc.Refresh(h.ctx, pair.RefreshToken); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}

func TestBlankNamesRejected(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Register(h.ctx, dto.SignupRequest{
		Name:            "    ",
		Email:           "ada@example.com",
		Username:        "ada",
		DateOfBirth:     date(1990, time.December, 10),
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	assert.ErrorIs(t, err, ErrBadArguments)

	ada := h.register(t, "  Ada  ", "ada", date(1990, time.December, 10))
	assert.Equal(t, "Ada", ada.Name)

	_, err = h.svc.UpdateProfile(h.ctx, ada.UserID, dto.UpdateProfileRequest{Name: " \t ", Email: ada.Email})
	assert.ErrorIs(t, err, ErrBadArguments)
}

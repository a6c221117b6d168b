package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kalender/model"
)

// AddNotification stores n unless an equivalent one already exists. The
// boolean reports whether a new notification was created.
func (s *Service) AddNotification(ctx context.Context, n model.Notification) (model.Notification, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addNotificationLocked(ctx, n)
}

func (s *Service) addNotificationLocked(ctx context.Context, n model.Notification) (model.Notification, bool, error) {
	if n.RecipientID == "" || n.Type == "" {
		return model.Notification{}, false, fmt.Errorf("%w: notification needs a recipient and a type", ErrBadArguments)
	}

	duplicate, err := s.isDuplicateNotification(ctx, n)
	if err != nil {
		return model.Notification{}, false, err
	}
	if duplicate {
		return model.Notification{}, false, nil
	}

	n.NotificationID = s.newID()
	n.CreatedAt = s.now()
	n.IsRead = false
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return model.Notification{}, false, fmt.Errorf("failed to create notification: %w", err)
	}

	s.log.Debug("notification created",
		zap.String("notification_id", n.NotificationID),
		zap.String("recipient_id", n.RecipientID),
		zap.String("type", string(n.Type)))
	return n, true, nil
}

// isDuplicateNotification applies the per-type dedup rules: reminders are
// sent at most once a day per item, and a list has at most one pending
// invitation per recipient.
func (s *Service) isDuplicateNotification(ctx context.Context, n model.Notification) (bool, error) {
	switch {
	case n.Type == model.NotificationBirthdayReminder || n.Type == model.NotificationUpcomingTask:
	case n.IsPendingInvitation():
	default:
		return false, nil
	}

	existing, err := s.store.ListNotifications(ctx, n.RecipientID)
	if err != nil {
		return false, err
	}
	today := s.today()
	for _, e := range existing {
		if e.Type != n.Type || e.RelatedItemID != n.RelatedItemID {
			continue
		}
		if n.IsPendingInvitation() {
			if e.IsPendingInvitation() {
				return true, nil
			}
			continue
		}
		if sameDay(e.CreatedAt.In(s.loc), today) {
			return true, nil
		}
	}
	return false, nil
}

// Notifications refreshes the user's reminders and returns their
// notifications, newest first.
func (s *Service) Notifications(ctx context.Context, userID string) ([]model.Notification, error) {
	if _, err := s.GenerateReminders(ctx, userID); err != nil {
		s.log.Warn("failed to generate reminders", zap.String("user_id", userID), zap.Error(err))
	}
	return s.store.ListNotifications(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkNotificationAsRead acknowledges a notification, which removes it.
func (s *Service) MarkNotificationAsRead(ctx context.Context, userID, notificationID string) error {
	return s.DeleteNotification(ctx, userID, notificationID)
}

// MarkAllNotificationsAsRead removes every notification of the user except
// invitations still waiting for an answer. It returns how many were removed.
func (s *Service) MarkAllNotificationsAsRead(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, n := range list {
		if n.IsPendingInvitation() {
			continue
		}
		if err := s.store.DeleteNotification(ctx, n.NotificationID); err != nil && !errors.Is(err, ErrNotFound) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *Service) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownNotification(ctx, userID, notificationID); err != nil {
		return err
	}
	return s.store.DeleteNotification(ctx, notificationID)
}

// AcceptInvitation joins the invited list, tells the inviter, and removes
// the invitation.
func (s *Service) AcceptInvitation(ctx context.Context, userID, notificationID string) error {
	return s.answerInvitation(ctx, userID, notificationID, true)
}

// DeclineInvitation tells the inviter and removes the invitation.
func (s *Service) DeclineInvitation(ctx context.Context, userID, notificationID string) error {
	return s.answerInvitation(ctx, userID, notificationID, false)
}

func (s *Service) answerInvitation(ctx context.Context, userID, notificationID string, accept bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.ownNotification(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if n.Type != model.NotificationInvitation || n.RelatedItemID == "" || n.TriggerUserID == "" {
		return s.store.DeleteNotification(ctx, notificationID)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	list, err := s.store.GetTaskList(ctx, n.RelatedItemID)
	listFound := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if accept && listFound {
		list.SharedWith = model.AddUnique(list.SharedWith, userID)
		list.UpdatedAt = s.now()
		if err := s.store.UpdateTaskList(ctx, list); err != nil {
			return fmt.Errorf("failed to join task list: %w", err)
		}
	}

	inviter, err := s.store.GetUser(ctx, n.TriggerUserID)
	inviterFound := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if listFound && inviterFound {
		response := model.Notification{
			RecipientID:   inviter.UserID,
			TriggerUserID: userID,
			Type:          model.NotificationInvitationResponse,
			RelatedItemID: list.ListID,
		}
		if accept {
			response.Message = fmt.Sprintf("%s accepted your invitation to the list %q.", user.Name, list.Name)
			response.LinkTo = "/tasks?list=" + list.ListID
		} else {
			response.Message = fmt.Sprintf("%s declined your invitation to the list %q.", user.Name, list.Name)
		}
		if _, _, err := s.addNotificationLocked(ctx, response); err != nil {
			return err
		}
	}

	return s.store.DeleteNotification(ctx, notificationID)
}

func (s *Service) ownNotification(ctx context.Context, userID, notificationID string) (model.Notification, error) {
	n, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		return model.Notification{}, err
	}
	if n.RecipientID != userID {
		return model.Notification{}, fmt.Errorf("%w: notification belongs to another user", ErrForbidden)
	}
	return n, nil
}

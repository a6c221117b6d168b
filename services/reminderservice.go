package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kalender/model"
)

// GenerateReminders creates today's birthday reminders for the users
// userID follows and upcoming-task reminders for open tasks due today or
// tomorrow. Reminders already sent today are not repeated. It returns the
// number of notifications created.
func (s *Service) GenerateReminders(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	created := 0
	n, err := s.birthdayRemindersLocked(ctx, user)
	created += n
	if err != nil {
		return created, err
	}
	n, err = s.upcomingTaskRemindersLocked(ctx, user)
	created += n
	return created, err
}

func (s *Service) birthdayRemindersLocked(ctx context.Context, user model.User) (int, error) {
	today := s.today()
	created := 0
	for _, followedID := range user.Following {
		followed, err := s.store.GetUser(ctx, followedID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return created, err
		}
		if followed.DateOfBirth == nil {
			continue
		}
		// Birth dates are calendar dates and are kept at UTC midnight.
		dob := followed.DateOfBirth.UTC()
		if dob.Month() != today.Month() || dob.Day() != today.Day() {
			continue
		}

		_, ok, err := s.addNotificationLocked(ctx, model.Notification{
			RecipientID:   user.UserID,
			TriggerUserID: followed.UserID,
			Type:          model.NotificationBirthdayReminder,
			Message:       fmt.Sprintf("Today is %s's birthday!", followed.Name),
			RelatedItemID: followed.UserID,
			LinkTo:        "/profile/" + followed.UserID,
		})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *Service) upcomingTaskRemindersLocked(ctx context.Context, user model.User) (int, error) {
	from := startOfDay(s.today())
	// today and tomorrow, in calendar days
	until := from.AddDate(0, 0, 2)

	lists, err := s.VisibleTaskLists(ctx, user.UserID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, list := range lists {
		tasks, err := s.store.ListTasks(ctx, list.ListID)
		if err != nil {
			return created, err
		}
		for _, task := range tasks {
			if task.IsCompleted || task.DueDate.Before(from) || !task.DueDate.Before(until) {
				continue
			}
			_, ok, err := s.addNotificationLocked(ctx, model.Notification{
				RecipientID:   user.UserID,
				Type:          model.NotificationUpcomingTask,
				Message:       fmt.Sprintf("Task %q is due on %s.", task.Title, task.DueDate.In(s.loc).Format("January 2, 2006")),
				RelatedItemID: task.TaskID,
				LinkTo:        fmt.Sprintf("/tasks?list=%s&task=%s", list.ListID, task.TaskID),
			})
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}
	return created, nil
}

// GenerateAllReminders runs GenerateReminders for every user. A failure for
// one user is logged and does not stop the sweep.
func (s *Service) GenerateAllReminders(ctx context.Context) (int, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.GenerateReminders(ctx, user.UserID)
		total += n
		if err != nil {
			s.log.Warn("failed to generate reminders", zap.String("user_id", user.UserID), zap.Error(err))
		}
	}
	return total, nil
}

// RunReminderLoop sweeps reminders for all users every interval until ctx
// is cancelled. A non-positive interval disables the loop.
func (s *Service) RunReminderLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Info("reminder loop disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	n, err := s.GenerateAllReminders(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error("reminder sweep failed", zap.Error(err))
		return
	}
	s.log.Debug("reminder sweep finished", zap.Int("created", n))
}

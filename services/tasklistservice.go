package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"kalender/dto"
	"kalender/model"
)

// CreateTaskList creates a list owned by userID and invites the given users.
func (s *Service) CreateTaskList(ctx context.Context, userID string, req dto.CreateTaskListRequest) (model.TaskList, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return model.TaskList{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return model.TaskList{}, err
	}

	now := s.now()
	list := model.TaskList{
		ListID:     s.newID(),
		Name:       req.Name,
		OwnerID:    userID,
		SharedWith: []string{},
		Visibility: model.Visibility(req.Visibility),
		Color:      req.Color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateTaskList(ctx, list); err != nil {
		return model.TaskList{}, fmt.Errorf("failed to create task list: %w", err)
	}

	if err := s.inviteAllLocked(ctx, userID, list, req.UsersToInvite); err != nil {
		return model.TaskList{}, err
	}
	return list, nil
}

// UpdateTaskList applies the set fields of req. Only the owner may do this.
func (s *Service) UpdateTaskList(ctx context.Context, userID, listID string, req dto.UpdateTaskListRequest) (model.TaskList, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if err := validate(req); err != nil {
		return model.TaskList{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.ownedTaskList(ctx, userID, listID)
	if err != nil {
		return model.TaskList{}, err
	}

	if req.Name != nil {
		list.Name = *req.Name
	}
	if req.Visibility != nil {
		list.Visibility = model.Visibility(*req.Visibility)
	}
	if req.Color != nil {
		list.Color = *req.Color
	}
	list.UpdatedAt = s.now()

	if err := s.store.UpdateTaskList(ctx, list); err != nil {
		return model.TaskList{}, fmt.Errorf("failed to update task list: %w", err)
	}
	if err := s.inviteAllLocked(ctx, userID, list, req.UsersToInvite); err != nil {
		return model.TaskList{}, err
	}
	return list, nil
}

func (s *Service) SetTaskListVisibility(ctx context.Context, userID, listID string, visibility model.Visibility) (model.TaskList, error) {
	if visibility != model.VisibilityPublic && visibility != model.VisibilityPrivate {
		return model.TaskList{}, fmt.Errorf("%w: unknown visibility %q", ErrBadArguments, visibility)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.ownedTaskList(ctx, userID, listID)
	if err != nil {
		return model.TaskList{}, err
	}
	list.Visibility = visibility
	list.UpdatedAt = s.now()
	if err := s.store.UpdateTaskList(ctx, list); err != nil {
		return model.TaskList{}, err
	}
	return list, nil
}

// DeleteTaskList removes an owned list and all of its tasks.
func (s *Service) DeleteTaskList(ctx context.Context, userID, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedTaskList(ctx, userID, listID); err != nil {
		return err
	}
	return s.deleteTaskListLocked(ctx, listID)
}

func (s *Service) deleteTaskListLocked(ctx context.Context, listID string) error {
	if err := s.store.DeleteTasksByList(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	if err := s.store.DeleteTaskList(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete task list: %w", err)
	}
	s.log.Debug("task list deleted", zap.String("list_id", listID))
	return nil
}

// GetTaskList returns a list its members can see, or any public list.
func (s *Service) GetTaskList(ctx context.Context, userID, listID string) (model.TaskList, error) {
	list, err := s.store.GetTaskList(ctx, listID)
	if err != nil {
		return model.TaskList{}, err
	}
	if !list.IsMember(userID) && list.Visibility != model.VisibilityPublic {
		return model.TaskList{}, fmt.Errorf("%w: no access to this list", ErrForbidden)
	}
	return list, nil
}

// VisibleTaskLists returns the lists userID owns or was invited into,
// newest first.
func (s *Service) VisibleTaskLists(ctx context.Context, userID string) ([]model.TaskList, error) {
	owned, err := s.store.ListTaskListsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	shared, err := s.store.ListTaskListsSharedWith(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(owned)+len(shared))
	out := make([]model.TaskList, 0, len(owned)+len(shared))
	for _, list := range append(owned, shared...) {
		if seen[list.ListID] {
			continue
		}
		seen[list.ListID] = true
		out = append(out, list)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// PublicTaskLists returns the public lists owned by ownerID.
func (s *Service) PublicTaskLists(ctx context.Context, ownerID string) ([]model.TaskList, error) {
	owned, err := s.store.ListTaskListsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := []model.TaskList{}
	for _, list := range owned {
		if list.Visibility == model.VisibilityPublic {
			out = append(out, list)
		}
	}
	return out, nil
}

// InviteUser sends a pending invitation for listID to inviteeID. It reports
// false when nothing was sent because the invitee already has access or an
// invitation is already waiting.
func (s *Service) InviteUser(ctx context.Context, userID, listID, inviteeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.ownedTaskList(ctx, userID, listID)
	if err != nil {
		return false, err
	}
	return s.inviteLocked(ctx, userID, list, inviteeID)
}

func (s *Service) inviteAllLocked(ctx context.Context, userID string, list model.TaskList, inviteeIDs []string) error {
	for _, inviteeID := range inviteeIDs {
		if _, err := s.inviteLocked(ctx, userID, list, inviteeID); err != nil {
			if errors.Is(err, ErrNotFound) {
				s.log.Warn("skipping invitation for unknown user", zap.String("list_id", list.ListID), zap.String("invitee_id", inviteeID))
				continue
			}
			return err
		}
	}
	return nil
}

func (s *Service) inviteLocked(ctx context.Context, userID string, list model.TaskList, inviteeID string) (bool, error) {
	inviter, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if _, err := s.store.GetUser(ctx, inviteeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, fmt.Errorf("%w: invitee not found", ErrNotFound)
		}
		return false, err
	}
	if list.IsMember(inviteeID) {
		return false, nil
	}

	_, created, err := s.addNotificationLocked(ctx, model.Notification{
		RecipientID:   inviteeID,
		TriggerUserID: userID,
		Type:          model.NotificationInvitation,
		Message:       fmt.Sprintf("%s invited you to the list %q.", inviter.Name, list.Name),
		RelatedItemID: list.ListID,
		Status:        model.StatusPending,
		LinkTo:        "/tasks?list=" + list.ListID,
	})
	return created, err
}

func (s *Service) ownedTaskList(ctx context.Context, userID, listID string) (model.TaskList, error) {
	list, err := s.store.GetTaskList(ctx, listID)
	if err != nil {
		return model.TaskList{}, err
	}
	if list.OwnerID != userID {
		return model.TaskList{}, fmt.Errorf("%w: only the owner can change this list", ErrForbidden)
	}
	return list, nil
}

// memberTaskList returns the list when userID owns it or it was shared
// with them.
func (s *Service) memberTaskList(ctx context.Context, userID, listID string) (model.TaskList, error) {
	list, err := s.store.GetTaskList(ctx, listID)
	if err != nil {
		return model.TaskList{}, err
	}
	if !list.IsMember(userID) {
		return model.TaskList{}, fmt.Errorf("%w: no access to this list", ErrForbidden)
	}
	return list, nil
}

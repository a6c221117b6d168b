package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kalender/dto"
	"kalender/model"
)

// Register creates a verified account. E-mail and username must be unused.
func (s *Service) Register(ctx context.Context, req dto.SignupRequest) (model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return model.User{}, fmt.Errorf("%w: email is already registered", ErrAlreadyExists)
	} else if !errors.Is(err, ErrNotFound) {
		return model.User{}, err
	}
	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return model.User{}, fmt.Errorf("%w: username is already taken", ErrAlreadyExists)
	} else if !errors.Is(err, ErrNotFound) {
		return model.User{}, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}

	now := s.now()
	dob := calendarDate(req.DateOfBirth)
	user := model.User{
		UserID:      s.newID(),
		Name:        req.Name,
		Email:       req.Email,
		Username:    req.Username,
		Password:    hashedPassword,
		DateOfBirth: &dob,
		AvatarURL:   fmt.Sprintf("https://picsum.photos/seed/%s/128/128", req.Email),
		Following:   []string{},
		Followers:   []string{},
		IsVerified:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.UserID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates by username or e-mail and issues a token pair.
func (s *Service) Login(ctx context.Context, req dto.SigninRequest) (model.User, model.TokenPair, error) {
	if err := validate(req); err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Identifier)
	if errors.Is(err, ErrNotFound) {
		user, err = s.store.GetUserByEmail(ctx, req.Identifier)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, model.TokenPair{}, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return model.User{}, model.TokenPair{}, err
	}

	if err := checkPassword(user.Password, req.Password); err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	tokens, err := s.issueTokens(ctx, user.UserID)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	if _, err := s.GenerateReminders(ctx, user.UserID); err != nil {
		s.log.Warn("failed to generate reminders on login", zap.String("user_id", user.UserID), zap.Error(err))
	}
	return user, tokens, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new pair. Each
// refresh token is accepted once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.TokenPair{}, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return model.TokenPair{}, err
	}
	if !compareRefreshToken(user.RefreshTokenHash, refreshToken) {
		return model.TokenPair{}, fmt.Errorf("%w: refresh token has been revoked", ErrUnauthorized)
	}
	return s.issueTokensLocked(ctx, userID)
}

// Logout revokes the stored refresh token.
func (s *Service) Logout(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshTokenHash = ""
	return s.store.UpdateUser(ctx, user)
}

func (s *Service) issueTokens(ctx context.Context, userID string) (model.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokensLocked(ctx, userID)
}

func (s *Service) issueTokensLocked(ctx context.Context, userID string) (model.TokenPair, error) {
	accessToken, err := s.tokens.CreateAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, err := s.tokens.CreateRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	hashedRefreshToken, err := HashRefreshToken(refreshToken)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return model.TokenPair{}, err
	}
	user.RefreshTokenHash = hashedRefreshToken
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (model.User, error) {
	return s.store.GetUser(ctx, userID)
}

// ListUsers returns every account with a usable username.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if strings.TrimSpace(u.Username) != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

// SearchUsers matches the query against name, username and e-mail,
// ignoring case.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrBadArguments)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.User{}
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Username), query) ||
			strings.Contains(strings.ToLower(u.Email), query) {
			out = append(out, u)
		}
	}
	return out, nil
}

// Profile returns a user together with the lists they made public.
func (s *Service) Profile(ctx context.Context, userID string) (model.User, []model.TaskList, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, nil, err
	}
	lists, err := s.PublicTaskLists(ctx, userID)
	if err != nil {
		return model.User{}, nil, err
	}
	return user, lists, nil
}

// UpdateProfile changes name, e-mail and optionally the avatar. The date of
// birth cannot be changed.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if req.Email != user.Email {
		other, err := s.store.GetUserByEmail(ctx, req.Email)
		switch {
		case err == nil && other.UserID != userID:
			return model.User{}, fmt.Errorf("%w: email is already registered", ErrAlreadyExists)
		case err != nil && !errors.Is(err, ErrNotFound):
			return model.User{}, err
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	user.UpdatedAt = s.now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user along with everything only they own, and
// takes them out of other users' follow sets and shared lists.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	owned, err := s.store.ListTaskListsByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check owned lists: %w", err)
	}
	for _, list := range owned {
		if err := s.deleteTaskListLocked(ctx, list.ListID); err != nil {
			return err
		}
	}

	shared, err := s.store.ListTaskListsSharedWith(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check shared lists: %w", err)
	}
	for _, list := range shared {
		list.SharedWith = model.Remove(list.SharedWith, userID)
		if err := s.store.UpdateTaskList(ctx, list); err != nil {
			return err
		}
	}

	related := append(append([]string{}, user.Following...), user.Followers...)
	for _, otherID := range related {
		other, err := s.store.GetUser(ctx, otherID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		other.Following = model.Remove(other.Following, userID)
		other.Followers = model.Remove(other.Followers, userID)
		if err := s.store.UpdateUser(ctx, other); err != nil {
			return err
		}
	}

	notifications, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		if err := s.store.DeleteNotification(ctx, n.NotificationID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.log.Info("user deleted", zap.String("user_id", userID), zap.Int("owned_lists", len(owned)))
	return nil
}

// Follow makes userID a follower of targetID and tells the target about it
// the first time.
func (s *Service) Follow(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return fmt.Errorf("%w: cannot follow yourself", ErrBadArguments)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return err
	}

	alreadyFollowing := user.IsFollowing(targetID)

	user.Following = model.AddUnique(user.Following, targetID)
	target.Followers = model.AddUnique(target.Followers, userID)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	if err := s.store.UpdateUser(ctx, target); err != nil {
		return err
	}

	if alreadyFollowing {
		return nil
	}
	_, _, err = s.addNotificationLocked(ctx, model.Notification{
		RecipientID:   targetID,
		TriggerUserID: userID,
		Type:          model.NotificationNewFollower,
		Message:       fmt.Sprintf("%s started following you.", user.Name),
		LinkTo:        "/profile/" + userID,
	})
	return err
}

func (s *Service) Unfollow(ctx context.Context, userID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Following = model.Remove(user.Following, targetID)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	target, err := s.store.GetUser(ctx, targetID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	target.Followers = model.Remove(target.Followers, userID)
	return s.store.UpdateUser(ctx, target)
}

func (s *Service) Followers(ctx context.Context, userID string) ([]model.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, user.Followers)
}

func (s *Service) Following(ctx context.Context, userID string) ([]model.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, user.Following)
}

// resolveUsers drops ids that no longer point at an account.
func (s *Service) resolveUsers(ctx context.Context, ids []string) ([]model.User, error) {
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.store.GetUser(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

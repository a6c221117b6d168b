package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"kalender/model"
)

// Memory keeps everything in maps. Data is lost on restart.
type Memory struct {
	mu sync.RWMutex

	users         map[string]model.User
	taskLists     map[string]model.TaskList
	tasks         map[string]model.Task
	notifications map[string]model.Notification
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]model.User),
		taskLists:     make(map[string]model.TaskList),
		tasks:         make(map[string]model.Task),
		notifications: make(map[string]model.Notification),
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// Users

func (m *Memory) CreateUser(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.UserID]; ok {
		return ErrAlreadyExists
	}
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrAlreadyExists
		}
	}
	m.users[u.UserID] = u.Clone()
	return nil
}

func (m *Memory) GetUser(_ context.Context, userID string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	return m.findUser(func(u model.User) bool { return u.Email == email })
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	return m.findUser(func(u model.User) bool { return u.Username == username })
}

func (m *Memory) findUser(match func(model.User) bool) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			return u.Clone(), nil
		}
	}
	return model.User{}, ErrNotFound
}

func (m *Memory) ListUsers(context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (m *Memory) UpdateUser(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.UserID]; !ok {
		return ErrNotFound
	}
	for id, existing := range m.users {
		if id != u.UserID && (existing.Email == u.Email || existing.Username == u.Username) {
			return ErrAlreadyExists
		}
	}
	m.users[u.UserID] = u.Clone()
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

// Task lists

func (m *Memory) CreateTaskList(_ context.Context, l model.TaskList) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.taskLists[l.ListID]; ok {
		return ErrAlreadyExists
	}
	m.taskLists[l.ListID] = l.Clone()
	return nil
}

func (m *Memory) GetTaskList(_ context.Context, listID string) (model.TaskList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.taskLists[listID]
	if !ok {
		return model.TaskList{}, ErrNotFound
	}
	return l.Clone(), nil
}

func (m *Memory) ListTaskListsByOwner(_ context.Context, ownerID string) ([]model.TaskList, error) {
	return m.filterTaskLists(func(l model.TaskList) bool { return l.OwnerID == ownerID }), nil
}

func (m *Memory) ListTaskListsSharedWith(_ context.Context, userID string) ([]model.TaskList, error) {
	return m.filterTaskLists(func(l model.TaskList) bool { return slices.Contains(l.SharedWith, userID) }), nil
}

func (m *Memory) filterTaskLists(match func(model.TaskList) bool) []model.TaskList {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.TaskList{}
	for _, l := range m.taskLists {
		if match(l) {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ListID < out[j].ListID
	})
	return out
}

func (m *Memory) UpdateTaskList(_ context.Context, l model.TaskList) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.taskLists[l.ListID]; !ok {
		return ErrNotFound
	}
	m.taskLists[l.ListID] = l.Clone()
	return nil
}

func (m *Memory) DeleteTaskList(_ context.Context, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.taskLists[listID]; !ok {
		return ErrNotFound
	}
	delete(m.taskLists, listID)
	return nil
}

// Tasks

func (m *Memory) CreateTask(_ context.Context, t model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[t.TaskID]; ok {
		return ErrAlreadyExists
	}
	m.tasks[t.TaskID] = t.Clone()
	return nil
}

func (m *Memory) GetTask(_ context.Context, taskID string) (model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[taskID]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t.Clone(), nil
}

func (m *Memory) ListTasks(_ context.Context, listID string) ([]model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Task{}
	for _, t := range m.tasks {
		if t.ListID == listID {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out, nil
}

func (m *Memory) UpdateTask(_ context.Context, t model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[t.TaskID]; !ok {
		return ErrNotFound
	}
	m.tasks[t.TaskID] = t.Clone()
	return nil
}

func (m *Memory) DeleteTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[taskID]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

func (m *Memory) DeleteTasksByList(_ context.Context, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, t := range m.tasks {
		if t.ListID == listID {
			delete(m.tasks, id)
		}
	}
	return nil
}

// Notifications

func (m *Memory) CreateNotification(_ context.Context, n model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notifications[n.NotificationID]; ok {
		return ErrAlreadyExists
	}
	m.notifications[n.NotificationID] = n
	return nil
}

func (m *Memory) GetNotification(_ context.Context, notificationID string) (model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[notificationID]
	if !ok {
		return model.Notification{}, ErrNotFound
	}
	return n, nil
}

func (m *Memory) ListNotifications(_ context.Context, recipientID string) ([]model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Notification{}
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Memory) DeleteNotification(_ context.Context, notificationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notifications[notificationID]; !ok {
		return ErrNotFound
	}
	delete(m.notifications, notificationID)
	return nil
}

func sortNewestFirst(ns []model.Notification) {
	sort.SliceStable(ns, func(i, j int) bool {
		if !ns[i].CreatedAt.Equal(ns[j].CreatedAt) {
			return ns[i].CreatedAt.After(ns[j].CreatedAt)
		}
		return ns[i].NotificationID > ns[j].NotificationID
	})
}

// Package store persists users, task lists, tasks and notifications.
package store

import (
	"context"
	"errors"

	"kalender/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Store is implemented by every storage backend. Implementations must be
// safe for concurrent use and must not retain the slices they are handed.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	CreateUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, u model.User) error
	DeleteUser(ctx context.Context, userID string) error

	CreateTaskList(ctx context.Context, l model.TaskList) error
	GetTaskList(ctx context.Context, listID string) (model.TaskList, error)
	ListTaskListsByOwner(ctx context.Context, ownerID string) ([]model.TaskList, error)
	ListTaskListsSharedWith(ctx context.Context, userID string) ([]model.TaskList, error)
	UpdateTaskList(ctx context.Context, l model.TaskList) error
	DeleteTaskList(ctx context.Context, listID string) error

	CreateTask(ctx context.Context, t model.Task) error
	GetTask(ctx context.Context, taskID string) (model.Task, error)
	ListTasks(ctx context.Context, listID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, taskID string) error
	DeleteTasksByList(ctx context.Context, listID string) error

	CreateNotification(ctx context.Context, n model.Notification) error
	GetNotification(ctx context.Context, notificationID string) (model.Notification, error)
	// ListNotifications returns the recipient's notifications newest first.
	ListNotifications(ctx context.Context, recipientID string) ([]model.Notification, error)
	DeleteNotification(ctx context.Context, notificationID string) error
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kalender/model"

	_ "modernc.org/sqlite"
)

// SQLite stores each record as a JSON document next to the columns it is
// looked up by.
type SQLite struct {
	db   *sql.DB
	path string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	username   TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL,
	data       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS task_lists (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	data       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_task_lists_owner ON task_lists(owner_id);

CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	list_id    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	data       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_list ON tasks(list_id);

CREATE TABLE IF NOT EXISTS notifications (
	id           TEXT PRIMARY KEY,
	recipient_id TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	data         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at);
`

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLite) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

// Users

func (s *SQLite) CreateUser(ctx context.Context, u model.User) error {
	return s.insert(ctx,
		`INSERT INTO users(id, email, username, created_at, data) VALUES (?, ?, ?, ?, ?)`,
		u, u.UserID, u.Email, u.Username, u.CreatedAt.UnixNano())
}

func (s *SQLite) GetUser(ctx context.Context, userID string) (model.User, error) {
	return getDoc[model.User](ctx, s.db, `SELECT data FROM users WHERE id = ?`, userID)
}

func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return getDoc[model.User](ctx, s.db, `SELECT data FROM users WHERE email = ?`, email)
}

func (s *SQLite) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return getDoc[model.User](ctx, s.db, `SELECT data FROM users WHERE username = ?`, username)
}

func (s *SQLite) ListUsers(ctx context.Context) ([]model.User, error) {
	return listDocs[model.User](ctx, s.db, `SELECT data FROM users ORDER BY created_at, id`)
}

func (s *SQLite) UpdateUser(ctx context.Context, u model.User) error {
	return s.update(ctx,
		`UPDATE users SET email = ?, username = ?, data = ? WHERE id = ?`,
		u, func(data string) []any { return []any{u.Email, u.Username, data, u.UserID} })
}

func (s *SQLite) DeleteUser(ctx context.Context, userID string) error {
	return s.delete(ctx, `DELETE FROM users WHERE id = ?`, userID)
}

// Task lists

func (s *SQLite) CreateTaskList(ctx context.Context, l model.TaskList) error {
	return s.insert(ctx,
		`INSERT INTO task_lists(id, owner_id, created_at, data) VALUES (?, ?, ?, ?)`,
		l, l.ListID, l.OwnerID, l.CreatedAt.UnixNano())
}

func (s *SQLite) GetTaskList(ctx context.Context, listID string) (model.TaskList, error) {
	return getDoc[model.TaskList](ctx, s.db, `SELECT data FROM task_lists WHERE id = ?`, listID)
}

func (s *SQLite) ListTaskListsByOwner(ctx context.Context, ownerID string) ([]model.TaskList, error) {
	return listDocs[model.TaskList](ctx, s.db,
		`SELECT data FROM task_lists WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
}

func (s *SQLite) ListTaskListsSharedWith(ctx context.Context, userID string) ([]model.TaskList, error) {
	return listDocs[model.TaskList](ctx, s.db, `
		SELECT t.data FROM task_lists t
		WHERE EXISTS (SELECT 1 FROM json_each(t.data, '$.sharedWith') j WHERE j.value = ?)
		ORDER BY t.created_at, t.id`, userID)
}

func (s *SQLite) UpdateTaskList(ctx context.Context, l model.TaskList) error {
	return s.update(ctx,
		`UPDATE task_lists SET owner_id = ?, data = ? WHERE id = ?`,
		l, func(data string) []any { return []any{l.OwnerID, data, l.ListID} })
}

func (s *SQLite) DeleteTaskList(ctx context.Context, listID string) error {
	return s.delete(ctx, `DELETE FROM task_lists WHERE id = ?`, listID)
}

// Tasks

func (s *SQLite) CreateTask(ctx context.Context, t model.Task) error {
	return s.insert(ctx,
		`INSERT INTO tasks(id, list_id, created_at, data) VALUES (?, ?, ?, ?)`,
		t, t.TaskID, t.ListID, t.CreatedAt.UnixNano())
}

func (s *SQLite) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	return getDoc[model.Task](ctx, s.db, `SELECT data FROM tasks WHERE id = ?`, taskID)
}

func (s *SQLite) ListTasks(ctx context.Context, listID string) ([]model.Task, error) {
	return listDocs[model.Task](ctx, s.db,
		`SELECT data FROM tasks WHERE list_id = ? ORDER BY created_at, id`, listID)
}

func (s *SQLite) UpdateTask(ctx context.Context, t model.Task) error {
	return s.update(ctx,
		`UPDATE tasks SET list_id = ?, data = ? WHERE id = ?`,
		t, func(data string) []any { return []any{t.ListID, data, t.TaskID} })
}

func (s *SQLite) DeleteTask(ctx context.Context, taskID string) error {
	return s.delete(ctx, `DELETE FROM tasks WHERE id = ?`, taskID)
}

func (s *SQLite) DeleteTasksByList(ctx context.Context, listID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE list_id = ?`, listID); err != nil {
		return fmt.Errorf("delete tasks of list: %w", err)
	}
	return nil
}

// Notifications

func (s *SQLite) CreateNotification(ctx context.Context, n model.Notification) error {
	return s.insert(ctx,
		`INSERT INTO notifications(id, recipient_id, created_at, data) VALUES (?, ?, ?, ?)`,
		n, n.NotificationID, n.RecipientID, n.CreatedAt.UnixNano())
}

func (s *SQLite) GetNotification(ctx context.Context, notificationID string) (model.Notification, error) {
	return getDoc[model.Notification](ctx, s.db, `SELECT data FROM notifications WHERE id = ?`, notificationID)
}

func (s *SQLite) ListNotifications(ctx context.Context, recipientID string) ([]model.Notification, error) {
	return listDocs[model.Notification](ctx, s.db,
		`SELECT data FROM notifications WHERE recipient_id = ? ORDER BY created_at DESC, id DESC`, recipientID)
}

func (s *SQLite) DeleteNotification(ctx context.Context, notificationID string) error {
	return s.delete(ctx, `DELETE FROM notifications WHERE id = ?`, notificationID)
}

// helpers

// insert encodes doc and appends it as the last argument of query.
func (s *SQLite) insert(ctx context.Context, query string, doc any, args ...any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, append(args, string(data))...); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func (s *SQLite) update(ctx context.Context, query string, doc any, args func(data string) []any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args(string(data))...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("update: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLite) delete(ctx context.Context, query string, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func getDoc[T any](ctx context.Context, db *sql.DB, query string, args ...any) (T, error) {
	var out T
	var data string
	if err := db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, ErrNotFound
		}
		return out, fmt.Errorf("query: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return out, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func listDocs[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var doc T
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"kalender/model"
)

const (
	usersCollection         = "Users"
	taskListsCollection     = "TaskLists"
	tasksCollection         = "Tasks"
	notificationsCollection = "Notifications"
)

// Firestore keeps one document per record, keyed by the record id.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) Ping(ctx context.Context) error {
	_, err := f.client.Collection(usersCollection).Limit(1).Documents(ctx).GetAll()
	return err
}

func (f *Firestore) Close() error { return f.client.Close() }

// Users

func (f *Firestore) CreateUser(ctx context.Context, u model.User) error {
	return f.create(ctx, usersCollection, u.UserID, u)
}

func (f *Firestore) GetUser(ctx context.Context, userID string) (model.User, error) {
	return getFirestoreDoc[model.User](ctx, f.client.Collection(usersCollection).Doc(userID))
}

func (f *Firestore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return f.findUser(ctx, "email", email)
}

func (f *Firestore) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return f.findUser(ctx, "username", username)
}

func (f *Firestore) findUser(ctx context.Context, field, value string) (model.User, error) {
	docs, err := f.client.Collection(usersCollection).Where(field, "==", value).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return model.User{}, err
	}
	if len(docs) == 0 {
		return model.User{}, ErrNotFound
	}

	var user model.User
	if err := docs[0].DataTo(&user); err != nil {
		return model.User{}, fmt.Errorf("failed to parse user data: %w", err)
	}
	return user, nil
}

func (f *Firestore) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := collectFirestoreDocs[model.User](f.client.Collection(usersCollection).Documents(ctx))
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (f *Firestore) UpdateUser(ctx context.Context, u model.User) error {
	return f.replace(ctx, usersCollection, u.UserID, u)
}

func (f *Firestore) DeleteUser(ctx context.Context, userID string) error {
	return f.delete(ctx, usersCollection, userID)
}

// Task lists

func (f *Firestore) CreateTaskList(ctx context.Context, l model.TaskList) error {
	return f.create(ctx, taskListsCollection, l.ListID, l)
}

func (f *Firestore) GetTaskList(ctx context.Context, listID string) (model.TaskList, error) {
	return getFirestoreDoc[model.TaskList](ctx, f.client.Collection(taskListsCollection).Doc(listID))
}

func (f *Firestore) ListTaskListsByOwner(ctx context.Context, ownerID string) ([]model.TaskList, error) {
	iter := f.client.Collection(taskListsCollection).Where("ownerid", "==", ownerID).Documents(ctx)
	return collectFirestoreDocs[model.TaskList](iter)
}

func (f *Firestore) ListTaskListsSharedWith(ctx context.Context, userID string) ([]model.TaskList, error) {
	iter := f.client.Collection(taskListsCollection).Where("sharedwith", "array-contains", userID).Documents(ctx)
	return collectFirestoreDocs[model.TaskList](iter)
}

func (f *Firestore) UpdateTaskList(ctx context.Context, l model.TaskList) error {
	return f.replace(ctx, taskListsCollection, l.ListID, l)
}

func (f *Firestore) DeleteTaskList(ctx context.Context, listID string) error {
	return f.delete(ctx, taskListsCollection, listID)
}

// Tasks

func (f *Firestore) CreateTask(ctx context.Context, t model.Task) error {
	return f.create(ctx, tasksCollection, t.TaskID, t)
}

func (f *Firestore) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	return getFirestoreDoc[model.Task](ctx, f.client.Collection(tasksCollection).Doc(taskID))
}

func (f *Firestore) ListTasks(ctx context.Context, listID string) ([]model.Task, error) {
	iter := f.client.Collection(tasksCollection).Where("listid", "==", listID).Documents(ctx)
	tasks, err := collectFirestoreDocs[model.Task](iter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (f *Firestore) UpdateTask(ctx context.Context, t model.Task) error {
	return f.replace(ctx, tasksCollection, t.TaskID, t)
}

func (f *Firestore) DeleteTask(ctx context.Context, taskID string) error {
	return f.delete(ctx, tasksCollection, taskID)
}

func (f *Firestore) DeleteTasksByList(ctx context.Context, listID string) error {
	docs, err := f.client.Collection(tasksCollection).Where("listid", "==", listID).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}

	bw := f.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return fmt.Errorf("failed to queue task delete: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
	}
	return nil
}

// Notifications

func (f *Firestore) CreateNotification(ctx context.Context, n model.Notification) error {
	return f.create(ctx, notificationsCollection, n.NotificationID, n)
}

func (f *Firestore) GetNotification(ctx context.Context, notificationID string) (model.Notification, error) {
	return getFirestoreDoc[model.Notification](ctx, f.client.Collection(notificationsCollection).Doc(notificationID))
}

func (f *Firestore) ListNotifications(ctx context.Context, recipientID string) ([]model.Notification, error) {
	iter := f.client.Collection(notificationsCollection).Where("recipientid", "==", recipientID).Documents(ctx)
	out, err := collectFirestoreDocs[model.Notification](iter)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *Firestore) DeleteNotification(ctx context.Context, notificationID string) error {
	return f.delete(ctx, notificationsCollection, notificationID)
}

// helpers

func (f *Firestore) create(ctx context.Context, collection, id string, doc any) error {
	if _, err := f.client.Collection(collection).Doc(id).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create %s document: %w", collection, err)
	}
	return nil
}

// replace overwrites an existing document inside a transaction so a
// missing document is reported instead of silently created.
func (f *Firestore) replace(ctx context.Context, collection, id string, doc any) error {
	ref := f.client.Collection(collection).Doc(id)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		if !snap.Exists() {
			return ErrNotFound
		}
		return tx.Set(ref, doc)
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update %s document: %w", collection, err)
	}
	return err
}

func (f *Firestore) delete(ctx context.Context, collection, id string) error {
	_, err := f.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s document: %w", collection, err)
	}
	return nil
}

func getFirestoreDoc[T any](ctx context.Context, ref *firestore.DocumentRef) (T, error) {
	var out T
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return out, ErrNotFound
		}
		return out, err
	}
	if err := snap.DataTo(&out); err != nil {
		return out, fmt.Errorf("failed to parse document: %w", err)
	}
	return out, nil
}

func collectFirestoreDocs[T any](iter *firestore.DocumentIterator) ([]T, error) {
	defer iter.Stop()

	out := []T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

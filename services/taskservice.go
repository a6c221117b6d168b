package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"kalender/dto"
	"kalender/model"
)

// AddTask creates a task in a list the user is a member of.
func (s *Service) AddTask(ctx context.Context, userID, listID string, req dto.TaskRequest) (model.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validate(req); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.memberTaskList(ctx, userID, listID); err != nil {
		return model.Task{}, err
	}

	now := s.now()
	task := model.Task{
		TaskID:      s.newID(),
		ListID:      listID,
		Title:       req.Title,
		DueDate:     req.DueDate,
		Time:        req.Time,
		Notes:       req.Notes,
		IsCompleted: req.IsCompleted,
		Comments:    []model.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask returns a task from a list the user can see.
func (s *Service) GetTask(ctx context.Context, userID, taskID string) (model.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if _, err := s.GetTaskList(ctx, userID, task.ListID); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces the editable fields of a task.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID string, req dto.TaskRequest) (model.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validate(req); err != nil {
		return model.Task{}, err
	}
	return s.mutateTask(ctx, userID, taskID, func(task *model.Task) {
		task.Title = req.Title
		task.DueDate = req.DueDate
		task.Time = req.Time
		task.Notes = req.Notes
		task.IsCompleted = req.IsCompleted
	})
}

func (s *Service) ToggleTaskCompletion(ctx context.Context, userID, taskID string) (model.Task, error) {
	return s.mutateTask(ctx, userID, taskID, func(task *model.Task) {
		task.IsCompleted = !task.IsCompleted
	})
}

// AddComment appends a comment authored by userID.
func (s *Service) AddComment(ctx context.Context, userID, taskID string, req dto.CommentRequest) (model.Comment, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := validate(req); err != nil {
		return model.Comment{}, err
	}

	comment := model.Comment{
		CommentID: s.newID(),
		TaskID:    taskID,
		UserID:    userID,
		Text:      req.Text,
		CreatedAt: s.now(),
	}
	_, err := s.mutateTask(ctx, userID, taskID, func(task *model.Task) {
		task.Comments = append(task.Comments, comment)
	})
	if err != nil {
		return model.Comment{}, err
	}
	return comment, nil
}

func (s *Service) DeleteTask(ctx context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.memberTaskList(ctx, userID, task.ListID); err != nil {
		return err
	}
	return s.store.DeleteTask(ctx, taskID)
}

func (s *Service) mutateTask(ctx context.Context, userID, taskID string, mutate func(*model.Task)) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if _, err := s.memberTaskList(ctx, userID, task.ListID); err != nil {
		return model.Task{}, err
	}

	mutate(&task)
	task.UpdatedAt = s.now()
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// TasksInList returns the list's tasks by due date, earliest first.
func (s *Service) TasksInList(ctx context.Context, userID, listID string) ([]model.Task, error) {
	if _, err := s.GetTaskList(ctx, userID, listID); err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, listID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].DueDate.Before(tasks[j].DueDate) })
	return tasks, nil
}

// visibleTasks returns every task in the lists userID is a member of.
func (s *Service) visibleTasks(ctx context.Context, userID string) ([]model.Task, error) {
	lists, err := s.VisibleTaskLists(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []model.Task
	for _, list := range lists {
		tasks, err := s.store.ListTasks(ctx, list.ListID)
		if err != nil {
			return nil, err
		}
		out = append(out, tasks...)
	}
	return out, nil
}

// TasksForMonth returns the user's visible tasks due in the month of
// month, by due date.
func (s *Service) TasksForMonth(ctx context.Context, userID string, month time.Time) ([]model.Task, error) {
	tasks, err := s.visibleTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	month = month.In(s.loc)
	out := []model.Task{}
	for _, task := range tasks {
		due := task.DueDate.In(s.loc)
		if due.Year() == month.Year() && due.Month() == month.Month() {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// TasksForDay returns the user's visible tasks due on day. Timed tasks come
// first in clock order; untimed tasks follow.
func (s *Service) TasksForDay(ctx context.Context, userID string, day time.Time) ([]model.Task, error) {
	tasks, err := s.visibleTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	day = day.In(s.loc)
	out := []model.Task{}
	for _, task := range tasks {
		if sameDay(task.DueDate.In(s.loc), day) {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Time, out[j].Time
		switch {
		case a != "" && b != "":
			return a < b
		default:
			return a != "" && b == ""
		}
	})
	return out, nil
}

// Location is the zone calendar days are evaluated in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today is the current time in the service's zone.
func (s *Service) Today() time.Time {
	return s.today()
}

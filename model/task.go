package model

import (
	"time"
)

type Task struct {
	TaskID      string    `firestore:"taskid,omitempty" json:"id"`
	ListID      string    `firestore:"listid,omitempty" json:"listId"`
	Title       string    `firestore:"title,omitempty" json:"title"`
	DueDate     time.Time `firestore:"duedate,omitempty" json:"dueDate"`
	Time        string    `firestore:"time,omitempty" json:"time,omitempty"` // HH:MM
	Notes       string    `firestore:"notes,omitempty" json:"notes,omitempty"`
	IsCompleted bool      `firestore:"completed" json:"isCompleted"`
	Comments    []Comment `firestore:"comments" json:"comments"`
	CreatedAt   time.Time `firestore:"createdat,omitempty" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedat,omitempty" json:"updatedAt"`
}

type Comment struct {
	CommentID string    `firestore:"commentid,omitempty" json:"id"`
	TaskID    string    `firestore:"taskid,omitempty" json:"taskId"`
	UserID    string    `firestore:"userid,omitempty" json:"userId"`
	Text      string    `firestore:"text,omitempty" json:"text"`
	CreatedAt time.Time `firestore:"createdat,omitempty" json:"createdAt"`
}

func (t Task) Clone() Task {
	out := t
	if t.Comments != nil {
		out.Comments = append([]Comment(nil), t.Comments...)
	}
	return out
}

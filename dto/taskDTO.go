package dto

import "time"

type TaskRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=100"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	Time        string    `json:"time" binding:"omitempty,clock"`
	Notes       string    `json:"notes"`
	IsCompleted bool      `json:"isCompleted"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}

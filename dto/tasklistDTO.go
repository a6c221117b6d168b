package dto

type CreateTaskListRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=50"`
	Visibility    string   `json:"visibility" binding:"required,oneof=public private"`
	Color         string   `json:"color" binding:"required"`
	UsersToInvite []string `json:"usersToInvite"`
}

// UpdateTaskListRequest only touches the fields that are set.
type UpdateTaskListRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1,max=50"`
	Visibility    *string  `json:"visibility" binding:"omitempty,oneof=public private"`
	Color         *string  `json:"color" binding:"omitempty,min=1"`
	UsersToInvite []string `json:"usersToInvite"`
}

type VisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required,oneof=public private"`
}

type InviteRequest struct {
	UserID string `json:"userId" binding:"required"`
}

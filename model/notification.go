package model

import (
	"time"
)

type NotificationType string

const (
	NotificationNewFollower        NotificationType = "new_follower"
	NotificationInvitation         NotificationType = "task_list_invitation"
	NotificationBirthdayReminder   NotificationType = "birthday_reminder"
	NotificationUpcomingTask       NotificationType = "upcoming_task"
	NotificationInvitationResponse NotificationType = "invitation_response"
)

type NotificationStatus string

const (
	StatusPending  NotificationStatus = "pending"
	StatusAccepted NotificationStatus = "accepted"
	StatusDeclined NotificationStatus = "declined"
	StatusViewed   NotificationStatus = "viewed"
)

type Notification struct {
	NotificationID string             `firestore:"notificationid,omitempty" json:"id"`
	RecipientID    string             `firestore:"recipientid,omitempty" json:"recipientId"`
	TriggerUserID  string             `firestore:"triggeruserid,omitempty" json:"triggerUserId,omitempty"`
	Type           NotificationType   `firestore:"type,omitempty" json:"type"`
	Message        string             `firestore:"message,omitempty" json:"message"`
	RelatedItemID  string             `firestore:"relateditemid,omitempty" json:"relatedItemId,omitempty"`
	CreatedAt      time.Time          `firestore:"createdat,omitempty" json:"createdAt"`
	IsRead         bool               `firestore:"read" json:"isRead"`
	Status         NotificationStatus `firestore:"status,omitempty" json:"status,omitempty"`
	LinkTo         string             `firestore:"linkto,omitempty" json:"linkTo,omitempty"`
}

// IsPendingInvitation reports whether n still waits for an accept or decline.
func (n Notification) IsPendingInvitation() bool {
	return n.Type == NotificationInvitation && n.Status == StatusPending
}

package model

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type TaskList struct {
	ListID     string     `firestore:"listid,omitempty" json:"id"`
	Name       string     `firestore:"name,omitempty" json:"name"`
	OwnerID    string     `firestore:"ownerid,omitempty" json:"ownerId"`
	SharedWith []string   `firestore:"sharedwith" json:"sharedWith"`
	Visibility Visibility `firestore:"visibility,omitempty" json:"visibility"`
	Color      string     `firestore:"color,omitempty" json:"color"`
	CreatedAt  time.Time  `firestore:"createdat,omitempty" json:"createdAt"`
	UpdatedAt  time.Time  `firestore:"updatedat,omitempty" json:"updatedAt"`
}

// IsMember reports whether the user owns the list or was given access to it.
func (l TaskList) IsMember(userID string) bool {
	return l.OwnerID == userID || contains(l.SharedWith, userID)
}

func (l TaskList) Clone() TaskList {
	out := l
	out.SharedWith = cloneStrings(l.SharedWith)
	return out
}

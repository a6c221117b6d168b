package model

import "time"

type User struct {
	UserID           string     `firestore:"userid,omitempty" json:"id"`
	Name             string     `firestore:"name,omitempty" json:"name"`
	Email            string     `firestore:"email,omitempty" json:"email"`
	Username         string     `firestore:"username,omitempty" json:"username"`
	Password         string     `firestore:"password,omitempty" json:"password,omitempty"`
	DateOfBirth      *time.Time `firestore:"dateofbirth,omitempty" json:"dateOfBirth,omitempty"`
	AvatarURL        string     `firestore:"avatarurl,omitempty" json:"avatarUrl,omitempty"`
	Following        []string   `firestore:"following" json:"following"`
	Followers        []string   `firestore:"followers" json:"followers"`
	IsVerified       bool       `firestore:"verified" json:"isVerified"`
	RefreshTokenHash string     `firestore:"refreshtoken,omitempty" json:"refreshTokenHash,omitempty"`
	CreatedAt        time.Time  `firestore:"createdat,omitempty" json:"createdAt"`
	UpdatedAt        time.Time  `firestore:"updatedat,omitempty" json:"updatedAt"`
}

// IsFollowing reports whether u follows the given user.
func (u User) IsFollowing(userID string) bool {
	return contains(u.Following, userID)
}

// Clone returns a copy of u that shares no slices with it.
func (u User) Clone() User {
	out := u
	out.Following = cloneStrings(u.Following)
	out.Followers = cloneStrings(u.Followers)
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		out.DateOfBirth = &dob
	}
	return out
}

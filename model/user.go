package model

import (
	"strings"
	"time"
)

/*

User is identity only, profiles are owned by the account service

Id: primary key, same as the Cognito username
CreatedAt: time when entity is created
Username: unique handle
DisplayName: free-form name shown in notifications, may be empty
AvatarUrl: url to the profile picture

*/
type User struct {
	Id          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Username    string    `gorm:"uniqueIndex" json:"username"`
	DisplayName string    `json:"displayName"`
	AvatarUrl   string    `json:"avatarUrl"`
}

// SameUser reports whether two user ids refer to the same user. Ids coming
// from headers or query strings may carry stray whitespace, so both sides are
// trimmed. An empty id never matches anything.
func SameUser(a string, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && a == b
}

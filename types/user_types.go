package types

import "time"

type User struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
	FirstSeen time.Time
	LastSeen  time.Time
}

type UserStore interface {
	UpsertUser(user User) error
	GetUser(userID int64) (*User, error)
}

package models

import (
	"slices"
	"time"
)

type User struct {
	ID       string
	Name     string
	Age      *float64
	Email    string
	Password string
	// Tokens lists the bearer tokens that are still accepted, oldest first.
	Tokens    []string
	Avatar    []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) HasToken(token string) bool {
	return slices.Contains(u.Tokens, token)
}

package auth

import (
	"errors"
)

var ErrAuth = errors.New("wrong username or password")
var ErrEmptyPassword = errors.New("refusing to set empty password")
var ErrUsernameTaken = errors.New("username already exists")

// A Permission is a role flag on a user record.
// Author permits publishing content, Leader permits managing members.
type Permission string

const (
	Leader Permission = "leader"
	Author Permission = "author"
)

// Has reports whether the user holds every given permission.
// A nil user holds none.
func Has(u DBUser, perms ...Permission) bool {
	if u == nil {
		return false
	}
	for _, perm := range perms {
		if !u.Has(perm) {
			return false
		}
	}
	return true
}

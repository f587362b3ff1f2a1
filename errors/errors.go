package errors

import "fmt"

var (
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials")
	ErrInvalidRegistration = fmt.Errorf("invalid registration request")
	ErrInvalidPassword     = fmt.Errorf("password does not meet complexity requirements")
	ErrUserAlreadyExists   = fmt.Errorf("username already taken")
	ErrTokenGeneration     = fmt.Errorf("token generation failed")
	ErrNoSession           = fmt.Errorf("no active session")

	ErrEmptyMessage     = fmt.Errorf("message content is empty")
	ErrEmptyGroupName   = fmt.Errorf("group name is empty")
	ErrNoMembers        = fmt.Errorf("no members selected")
	ErrSelfConversation = fmt.Errorf("cannot open a direct conversation with yourself")
	ErrNotFound         = fmt.Errorf("not found")
)

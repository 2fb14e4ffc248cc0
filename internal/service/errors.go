package service

import "errors"

var (
	// ErrUserNotFound means no user matched the given email or id.
	ErrUserNotFound = errors.New("user not found")

	// ErrChatNotFound means no chat matched (id, owner). A chat owned by
	// a different user is indistinguishable from a missing one.
	ErrChatNotFound = errors.New("chat not found")

	// ErrEmptyMessage means the chat request carried no message.
	ErrEmptyMessage = errors.New("message is required")

	// ErrEmptyTitle means a title update carried nothing but whitespace.
	ErrEmptyTitle = errors.New("title is required")

	// ErrInvalidState means the OAuth callback state failed verification.
	ErrInvalidState = errors.New("invalid oauth state")
)

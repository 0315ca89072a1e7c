package model

import "errors"

var (
	// ErrNotFound is returned both for missing entities and for entities
	// owned by someone else.
	ErrNotFound   = errors.New("not found")
	ErrSlugExists = errors.New("slug already exists")
	ErrUserExists = errors.New("username already exists")
)

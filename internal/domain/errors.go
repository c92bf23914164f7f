package domain

import "errors"

// Validation errors
var (
	ErrEmptyContent     = errors.New("content cannot be empty")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// Lookup errors
var (
	ErrProgressNotFound = errors.New("user progress not found")
	ErrSessionNotFound  = errors.New("chat session not found")
)

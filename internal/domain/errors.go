package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been created or was closed.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrEmptyBank is returned when a session is started without any questions.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidChoice indicates a submitted choice index outside the displayed choices.
	ErrInvalidChoice = errors.New("choice index out of range")
	// ErrInvalidQuestion indicates a malformed question record.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidRecord indicates a malformed history record.
	ErrInvalidRecord = errors.New("invalid history record")
)

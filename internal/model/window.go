package model

import (
	"errors"
	"fmt"
)

var (
	ErrHourOutOfRange = errors.New("hours must be between 0 and 23")
	ErrEmptyWindow    = errors.New("start hour must be less than end hour")
)

// WindowConfig is the daily [StartHour, EndHour) interval when chats are open.
type WindowConfig struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// DefaultWindow is used when no hours are configured.
var DefaultWindow = WindowConfig{StartHour: 8, EndHour: 23}

// Validate checks the hours are in range and describe a non-empty window.
func (w WindowConfig) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 {
		return ErrHourOutOfRange
	}
	if w.StartHour >= w.EndHour {
		return ErrEmptyWindow
	}
	return nil
}

func (w WindowConfig) String() string {
	return fmt.Sprintf("%02d:00 - %02d:00", w.StartHour, w.EndHour)
}

// ChatState is the permission state last applied to a group chat.
type ChatState string

const (
	ChatAllowed ChatState = "allowed"
	ChatBlocked ChatState = "blocked"
)

// StateFor maps a window verdict to a chat state.
func StateFor(allowed bool) ChatState {
	if allowed {
		return ChatAllowed
	}
	return ChatBlocked
}

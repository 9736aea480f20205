package models

import (
	"encoding/json"
	"time"
)

// OnboardingState mirrors the first-run flags kept next to, but outside of, the progress document.
type OnboardingState struct {
	UserID    string          `json:"userId"`
	Completed bool            `json:"onboardingCompleted"`
	UserData  json.RawMessage `json:"userData,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

package model

import "time"

// PendingAction holds a moderator's half-finished action while the follow-up
// modal is open.
type PendingAction struct {
	MessageID   string
	Action      Action
	ModeratorID string
	CreatedAt   time.Time
}

// PanelState records where the creation panel was last posted.
type PanelState struct {
	ChannelID string    `json:"channel_id"`
	MessageID string    `json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
}

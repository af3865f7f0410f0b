package model

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// UserRef identifies a submitting user. Only ID is ever persisted; the rest
// is resolved from the platform when a store is loaded.
type UserRef struct {
	ID        string
	Name      string
	AvatarURL string
}

func (u UserRef) Mention() string {
	return fmt.Sprintf("<@%s>", u.ID)
}

func (u UserRef) String() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// UserRefFromDiscord copies the fields the bot displays.
func UserRefFromDiscord(u *discordgo.User) UserRef {
	if u == nil {
		return UserRef{}
	}
	return UserRef{
		ID:        u.ID,
		Name:      u.String(),
		AvatarURL: u.AvatarURL(""),
	}
}

// UserDirectory resolves persisted author ids to live users.
type UserDirectory interface {
	Resolve(ctx context.Context, userID string) (UserRef, error)
}

// UserResolutionError means an author id no longer resolves to an account.
type UserResolutionError struct {
	UserID string
	Err    error
}

func (e *UserResolutionError) Error() string {
	return fmt.Sprintf("resolving user %s: %v", e.UserID, e.Err)
}

func (e *UserResolutionError) Unwrap() error { return e.Err }

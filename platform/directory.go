package platform

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

// Directory resolves author ids through the platform and remembers the
// answers for the life of the process.
type Directory struct {
	client Client

	mu    sync.RWMutex
	users map[string]model.UserRef
}

func NewDirectory(client Client) *Directory {
	return &Directory{client: client, users: make(map[string]model.UserRef)}
}

func (d *Directory) Resolve(ctx context.Context, userID string) (model.UserRef, error) {
	d.mu.RLock()
	ref, ok := d.users[userID]
	d.mu.RUnlock()
	if ok {
		return ref, nil
	}

	user, err := d.client.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return model.UserRef{}, &model.UserResolutionError{UserID: userID, Err: err}
	}
	ref = model.UserRefFromDiscord(user)

	d.mu.Lock()
	d.users[userID] = ref
	d.mu.Unlock()
	return ref, nil
}

// Remember seeds the directory with a user already known from an interaction.
func (d *Directory) Remember(user *discordgo.User) {
	if user == nil {
		return
	}
	d.mu.Lock()
	d.users[user.ID] = model.UserRefFromDiscord(user)
	d.mu.Unlock()
}

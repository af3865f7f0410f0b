// Package review holds the moderation side of a submission: the controls on
// each moderation message, publishing, author notifications, intake and the
// startup rehydration of controls.
package review

import (
	"errors"
	"fmt"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/store"
)

// ErrStaleControl is returned when an action no longer applies, because the
// submission already moved on or another action on it is still running.
var ErrStaleControl = errors.New("this submission has already been handled")

// PublishError means the accepted submission could not be posted to its
// destination. The submission status is left unchanged.
type PublishError struct {
	Kind      model.Kind
	ChannelID string
	Err       error
}

func (e *PublishError) Error() string {
	if e.ChannelID == "" {
		return fmt.Sprintf("publishing %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("publishing %s to channel %s: %v", e.Kind, e.ChannelID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Outcome is what a moderator is told after an action.
type Outcome struct {
	Status  model.Status
	Message string
	// Warning reports a side effect that failed without failing the action.
	Warning string
}

func (o Outcome) Text() string {
	if o.Warning == "" {
		return o.Message
	}
	if o.Message == "" {
		return o.Warning
	}
	return o.Message + "\n" + o.Warning
}

// Options are the review settings taken from the configuration.
type Options struct {
	GuildID             string
	ApprovalChannelID   string
	EnableDuplicate     bool
	SkipMissingMessages bool
}

func OptionsFromConfig(cfg *model.Config) Options {
	return Options{
		GuildID:             cfg.GuildID,
		ApprovalChannelID:   cfg.ApprovalChannelID,
		EnableDuplicate:     cfg.Review.EnableDuplicate,
		SkipMissingMessages: cfg.Review.SkipMissingMessages,
	}
}

// Env is what every control shares.
type Env struct {
	Client    platform.Client
	Stores    *store.Set
	Publisher *Publisher
	Notifier  *Notifier
	Options   Options
}

func NewEnv(client platform.Client, stores *store.Set, cfg *model.Config) *Env {
	return &Env{
		Client:    client,
		Stores:    stores,
		Publisher: NewPublisher(client, cfg.ChannelFor),
		Notifier:  NewNotifier(client),
		Options:   OptionsFromConfig(cfg),
	}
}

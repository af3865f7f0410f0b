package review

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

// Intake turns a completed submission form into a moderation message with
// live controls.
type Intake struct {
	env      *Env
	registry *Registry
}

func NewIntake(env *Env, registry *Registry) *Intake {
	return &Intake{env: env, registry: registry}
}

// Submit posts a new submission to the approval channel and stores it under
// the id of that message. The returned error may be a *store.PersistenceError
// together with a non-nil submission: the moderation message and the control
// exist, only the file is behind.
func (in *Intake) Submit(ctx context.Context, kind model.Kind, title string, content model.Sections, author model.UserRef) (*model.Submission, error) {
	spec := kind.Spec()
	if err := spec.Validate(title, content); err != nil {
		return nil, err
	}
	if in.env.Options.ApprovalChannelID == "" {
		return nil, errors.New("approval channel is not configured")
	}

	sub := model.NewSubmission(kind, title, content, author)
	msg, err := in.env.Client.ChannelMessageSendComplex(in.env.Options.ApprovalChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{sub.Summary()},
		Components: Components(kind, sub.Status),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("posting %s for review: %w", spec.Noun, err)
	}
	if err := sub.SetID(msg.ID); err != nil {
		return nil, err
	}

	in.registry.Register(NewControl(in.env, sub, MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}))

	if err := in.env.Stores.For(kind).Save(ctx, sub); err != nil {
		log.Printf("Error saving new submission %s: %v", sub.ID, err)
		return sub, err
	}
	return sub, nil
}

package review

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

// MessageRef points at the moderation message a control is attached to.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// Control is the set of moderator actions on one submission, bound to the
// moderation message that shows it.
//
// Every mutating action claims the control before any I/O and re-checks the
// status under the lock, so of two concurrent presses only the first one
// runs. The claim is released when the action returns; a failed publish
// leaves the submission untouched and the control usable again.
type Control struct {
	env *Env
	ref MessageRef

	mu   sync.Mutex
	busy bool
	sub  *model.Submission
}

func NewControl(env *Env, sub *model.Submission, ref MessageRef) *Control {
	return &Control{env: env, ref: ref, sub: sub.Clone()}
}

func (c *Control) Message() MessageRef { return c.ref }

// Submission returns a copy of the current submission.
func (c *Control) Submission() *model.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub.Clone()
}

// Can reports whether action could run now.
func (c *Control) Can(action model.Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if action == model.ActionList {
		return true
	}
	return !c.busy && model.Allowed(c.sub.Kind, c.sub.Status, action)
}

func (c *Control) claim(action model.Action) (*model.Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy || !model.Allowed(c.sub.Kind, c.sub.Status, action) {
		return nil, ErrStaleControl
	}
	c.busy = true
	return c.sub.Clone(), nil
}

func (c *Control) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// apply mutates the live submission and returns a snapshot of the result.
func (c *Control) apply(mutate func(sub *model.Submission)) *model.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	mutate(c.sub)
	return c.sub.Clone()
}

// Approve publishes the submission and only then marks it approved.
func (c *Control) Approve(ctx context.Context) (Outcome, error) {
	work, err := c.claim(model.ActionApprove)
	if err != nil {
		return Outcome{}, err
	}
	defer c.release()

	next, err := model.Transition(work.Kind, work.Status, model.ActionApprove)
	if err != nil {
		return Outcome{}, err
	}
	if err := c.env.Publisher.Publish(ctx, work); err != nil {
		log.Printf("Error publishing submission %s: %v", work.ID, err)
		return Outcome{}, err
	}

	snap := c.apply(func(s *model.Submission) { s.Status = next })
	out := Outcome{Status: next, Message: fmt.Sprintf("%s has been approved", work.Kind.Spec().Noun)}
	return c.persist(ctx, snap, out)
}

// Deny marks the submission denied and tells the author why. A DM the author
// does not accept is reported as a warning.
func (c *Control) Deny(ctx context.Context, reason string) (Outcome, error) {
	work, err := c.claim(model.ActionDeny)
	if err != nil {
		return Outcome{}, err
	}
	defer c.release()

	next, err := model.Transition(work.Kind, work.Status, model.ActionDeny)
	if err != nil {
		return Outcome{}, err
	}

	snap := c.apply(func(s *model.Submission) { s.Status = next })
	out := Outcome{Status: next, Message: fmt.Sprintf("%s Denied", work.Kind.Spec().Noun)}
	if err := c.env.Notifier.Denied(ctx, snap, strings.TrimSpace(reason)); err != nil {
		log.Printf("Error notifying author %s of denied submission %s: %v", snap.Author.ID, snap.ID, err)
		out.Warning = notifyWarning(err)
	} else {
		out.Message += "\nUser was notified"
	}
	return c.persist(ctx, snap, out)
}

// Improve replaces title and content while the submission is still under
// review. The status and the controls stay as they are.
func (c *Control) Improve(ctx context.Context, title string, content model.Sections) (Outcome, error) {
	work, err := c.claim(model.ActionImprove)
	if err != nil {
		return Outcome{}, err
	}
	defer c.release()

	if err := work.Kind.Spec().Validate(title, content); err != nil {
		return Outcome{}, err
	}

	snap := c.apply(func(s *model.Submission) {
		s.Title = title
		s.Content = content.Clone()
	})
	out := Outcome{Status: snap.Status, Message: fmt.Sprintf("%s has been improved", work.Kind.Spec().Noun)}
	return c.persist(ctx, snap, out)
}

// Duplicate is a placeholder unless duplicates are enabled: it answers
// without touching the submission.
func (c *Control) Duplicate(ctx context.Context) (Outcome, error) {
	if !c.env.Options.EnableDuplicate {
		return Outcome{Status: c.Submission().Status, Message: "Hmmm, you haven't unlocked that yet"}, nil
	}
	return c.transition(ctx, model.ActionDuplicate, "%s marked as duplicate", c.env.Notifier.Duplicate)
}

func (c *Control) Close(ctx context.Context) (Outcome, error) {
	return c.transition(ctx, model.ActionClose, "%s closed", c.env.Notifier.TicketUpdated)
}

func (c *Control) Resolve(ctx context.Context) (Outcome, error) {
	return c.transition(ctx, model.ActionResolve, "%s resolved", c.env.Notifier.TicketUpdated)
}

func (c *Control) Reopen(ctx context.Context) (Outcome, error) {
	return c.transition(ctx, model.ActionReopen, "%s reopened", c.env.Notifier.TicketUpdated)
}

// Run performs an action that needs no further input from the moderator.
func (c *Control) Run(ctx context.Context, action model.Action) (Outcome, error) {
	switch action {
	case model.ActionApprove:
		return c.Approve(ctx)
	case model.ActionDuplicate:
		return c.Duplicate(ctx)
	case model.ActionClose:
		return c.Close(ctx)
	case model.ActionResolve:
		return c.Resolve(ctx)
	case model.ActionReopen:
		return c.Reopen(ctx)
	}
	return Outcome{}, fmt.Errorf("action %s needs input", action)
}

// transition runs a plain status edge and notifies the author, treating a
// failed notification as a warning.
func (c *Control) transition(ctx context.Context, action model.Action, format string, notify func(context.Context, *model.Submission) error) (Outcome, error) {
	work, err := c.claim(action)
	if err != nil {
		return Outcome{}, err
	}
	defer c.release()

	next, err := model.Transition(work.Kind, work.Status, action)
	if err != nil {
		return Outcome{}, err
	}

	snap := c.apply(func(s *model.Submission) { s.Status = next })
	out := Outcome{Status: next, Message: fmt.Sprintf(format, work.Kind.Spec().Noun)}
	if err := notify(ctx, snap); err != nil {
		log.Printf("Error notifying author %s of submission %s: %v", snap.Author.ID, snap.ID, err)
		out.Warning = notifyWarning(err)
	}
	return c.persist(ctx, snap, out)
}

// List renders every submission by the same author, in store order.
func (c *Control) List() *discordgo.MessageEmbed {
	sub := c.Submission()
	subs := c.env.Stores.For(sub.Kind).FindByAuthor(sub.Author.ID)
	return ListEmbed(sub.Kind.Spec(), sub.Author, subs, c.env.Options)
}

// persist saves snap and redraws the moderation message. The redraw happens
// even when the save fails, since memory already holds the change.
func (c *Control) persist(ctx context.Context, snap *model.Submission, out Outcome) (Outcome, error) {
	saveErr := c.env.Stores.For(snap.Kind).Save(ctx, snap)
	if saveErr != nil {
		log.Printf("Error saving submission %s: %v", snap.ID, saveErr)
	}
	if err := c.redraw(ctx, snap); err != nil {
		log.Printf("Error updating moderation message %s: %v", c.ref.MessageID, err)
		if out.Warning != "" {
			out.Warning += "\n"
		}
		out.Warning += "The moderation message could not be updated"
	}
	return out, saveErr
}

func (c *Control) redraw(ctx context.Context, snap *model.Submission) error {
	components := Components(snap.Kind, snap.Status)
	embeds := []*discordgo.MessageEmbed{snap.Summary()}
	_, err := c.env.Client.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         c.ref.MessageID,
		Channel:    c.ref.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return err
}

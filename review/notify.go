package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
)

// Notifier sends direct messages to submission authors.
type Notifier struct {
	client platform.Client
}

func NewNotifier(client platform.Client) *Notifier {
	return &Notifier{client: client}
}

// Denied tells the author why the submission was not accepted.
func (n *Notifier) Denied(ctx context.Context, sub *model.Submission, reason string) error {
	noun := strings.ToLower(sub.Kind.Spec().Noun)
	return n.send(ctx, sub.Author.ID, &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s was not accepted", sub.Kind.Spec().Noun),
		Description: fmt.Sprintf("**Please read this carefully:** \n\n"+
			"Your %s was not accepted for this reason: %s", noun, reason),
		Color: 0xED4245,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Please do not submit the same %s again, instead, try to improve your existing one", noun),
		},
	})
}

// Duplicate tells the author the submission was closed as a duplicate.
func (n *Notifier) Duplicate(ctx context.Context, sub *model.Submission) error {
	return n.send(ctx, sub.Author.ID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s was marked as a duplicate", sub.Kind.Spec().Noun),
		Description: fmt.Sprintf("**%s** has already been asked. Please look for the existing discussion.", sub.Title),
		Color:       0xED4245,
	})
}

// TicketUpdated tells the author the ticket changed status.
func (n *Notifier) TicketUpdated(ctx context.Context, sub *model.Submission) error {
	return n.send(ctx, sub.Author.ID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Your ticket is now %s", strings.ToLower(string(sub.Status))),
		Description: fmt.Sprintf("**%s**", sub.Title),
		Color:       0x5865F2,
	})
}

func (n *Notifier) send(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := n.client.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = n.client.ChannelMessageSendEmbed(ch.ID, embed, discordgo.WithContext(ctx))
	return err
}

// notifyWarning turns a failed notification into the moderator-facing warning.
func notifyWarning(err error) string {
	if platform.IsForbidden(err) {
		return "User was not notified: DMs are closed"
	}
	return fmt.Sprintf("User was not notified: %v", err)
}

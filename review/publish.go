package review

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
)

// Publisher posts accepted submissions to the destination channel of their
// kind.
type Publisher struct {
	client     platform.Client
	channelFor func(key string) string
}

func NewPublisher(client platform.Client, channelFor func(key string) string) *Publisher {
	return &Publisher{client: client, channelFor: channelFor}
}

// Publish opens the public discussion for sub. A forum gets a thread, a
// category gets a new text channel and any other channel gets a message with
// a thread started on it. Every failure is a *PublishError.
func (p *Publisher) Publish(ctx context.Context, sub *model.Submission) error {
	spec := sub.Kind.Spec()
	channelID := p.channelFor(spec.ChannelKey)
	if channelID == "" {
		return &PublishError{Kind: sub.Kind, Err: errors.New("no destination channel configured")}
	}
	fail := func(err error) error {
		return &PublishError{Kind: sub.Kind, ChannelID: channelID, Err: err}
	}

	ch, err := p.client.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return fail(err)
	}

	name := threadName(sub.Title)
	msg := publicMessage(sub)
	switch ch.Type {
	case discordgo.ChannelTypeGuildForum:
		_, err = p.client.ForumThreadStartComplex(ch.ID, &discordgo.ThreadStart{Name: name}, msg, discordgo.WithContext(ctx))
		if err != nil {
			return fail(fmt.Errorf("creating forum thread: %w", err))
		}
	case discordgo.ChannelTypeGuildCategory:
		created, err := p.client.GuildChannelCreateComplex(ch.GuildID, discordgo.GuildChannelCreateData{
			Name:     textChannelName(sub.Title),
			Type:     discordgo.ChannelTypeGuildText,
			ParentID: ch.ID,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fail(fmt.Errorf("creating text channel: %w", err))
		}
		if _, err := p.client.ChannelMessageSendComplex(created.ID, msg, discordgo.WithContext(ctx)); err != nil {
			return fail(fmt.Errorf("sending to new channel: %w", err))
		}
	default:
		m, err := p.client.ChannelMessageSendComplex(ch.ID, msg, discordgo.WithContext(ctx))
		if err != nil {
			return fail(fmt.Errorf("sending message: %w", err))
		}
		_, err = p.client.MessageThreadStartComplex(ch.ID, m.ID, &discordgo.ThreadStart{
			Name:                name,
			AutoArchiveDuration: 1440,
			Type:                discordgo.ChannelTypeGuildPublicThread,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fail(fmt.Errorf("starting thread: %w", err))
		}
	}
	return nil
}

// publicMessage is the opening message of the discussion. Single-body kinds
// post their text with a mention of the author, the others their summary.
func publicMessage(sub *model.Submission) *discordgo.MessageSend {
	if sub.Kind.Spec().SingleBody {
		body, _ := sub.Content.Get(model.BodyLabel)
		return &discordgo.MessageSend{
			Content:         fmt.Sprintf("%s\n\nOP: %s", body, sub.Author.Mention()),
			AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{sub.Author.ID}},
		}
	}
	embed := sub.Summary()
	embed.Footer = nil
	return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
}

func threadName(title string) string {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) <= 100 {
		return title
	}
	return string([]rune(title)[:100])
}

var channelNameInvalid = regexp.MustCompile(`[^a-z0-9_-]+`)

// textChannelName turns a title into a valid text channel name.
func textChannelName(title string) string {
	name := channelNameInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "submission"
	}
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}

package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

var ErrIDAssigned = errors.New("submission id already assigned")

// Submission is one post, bug report, question or ticket.
type Submission struct {
	// ID is the moderation message id. Empty until the submission is first
	// shown to moderators and immutable afterwards.
	ID      string
	Kind    Kind
	Title   string
	Content Sections
	Author  UserRef
	Status  Status
}

// NewSubmission builds a submission in the initial status of its kind.
func NewSubmission(kind Kind, title string, content Sections, author UserRef) *Submission {
	return &Submission{
		Kind:    kind,
		Title:   title,
		Content: content.Clone(),
		Author:  author,
		Status:  kind.Spec().Lifecycle.Initial(),
	}
}

// SetID assigns the moderation message id exactly once.
func (s *Submission) SetID(id string) error {
	if s.ID != "" && s.ID != id {
		return fmt.Errorf("%w: %s", ErrIDAssigned, s.ID)
	}
	s.ID = id
	return nil
}

func (s *Submission) Clone() *Submission {
	c := *s
	c.Content = s.Content.Clone()
	return &c
}

// Summary renders the submission as shown in the moderation queue and to the
// author as confirmation.
func (s *Submission) Summary() *discordgo.MessageEmbed {
	spec := s.Kind.Spec()
	embed := &discordgo.MessageEmbed{
		Title: truncate(s.Title, 256),
		Color: statusColor(s.Status),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Submitted By", Value: s.Author.Mention(), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s • %s", spec.Noun, s.Status),
		},
	}
	if s.Author.AvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: s.Author.AvatarURL}
	}
	if spec.SingleBody {
		body, _ := s.Content.Get(BodyLabel)
		embed.Description = truncate(body, 4096)
		return embed
	}
	for _, sec := range s.Content {
		value := sec.Text
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  truncate(sec.Label, 256),
			Value: truncate(value, 1024),
		})
	}
	return embed
}

func statusColor(s Status) int {
	switch s {
	case StatusApproved, StatusResolved:
		return 0x57F287
	case StatusDenied, StatusDuplicate:
		return 0xED4245
	case StatusClosed:
		return 0x95A5A6
	}
	return 0xFEE75C // pending
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

package review

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

// ActionPrefix starts the custom id of every review button.
const ActionPrefix = "review"

type button struct {
	label string
	emoji string
	style discordgo.ButtonStyle
}

var buttons = map[model.Action]button{
	model.ActionApprove:   {"Approve", "📨", discordgo.SuccessButton},
	model.ActionDeny:      {"Deny", "✋", discordgo.DangerButton},
	model.ActionImprove:   {"Improve", "📝", discordgo.PrimaryButton},
	model.ActionDuplicate: {"Duplicate", "🗃️", discordgo.DangerButton},
	model.ActionClose:     {"Close", "🔒", discordgo.SecondaryButton},
	model.ActionResolve:   {"Resolve", "✅", discordgo.SuccessButton},
	model.ActionReopen:    {"Reopen", "🔓", discordgo.PrimaryButton},
}

// ActionCustomID is the custom id of the button for action.
func ActionCustomID(action model.Action) string {
	return fmt.Sprintf("%s:%s", ActionPrefix, action)
}

// Components builds the moderation buttons for a submission in status. Every
// action that is not allowed in status is rendered disabled, so a redraw and a
// rehydrated message always agree.
func Components(kind model.Kind, status model.Status) []discordgo.MessageComponent {
	spec := kind.Spec()
	var row []discordgo.MessageComponent
	for _, action := range spec.Lifecycle.Actions() {
		b, ok := buttons[action]
		if action == model.ActionList {
			b, ok = button{fmt.Sprintf("List %s By Author", spec.ListNoun), "📋", discordgo.SecondaryButton}, true
		}
		if !ok {
			continue
		}
		row = append(row, discordgo.Button{
			Label:    b.label,
			Style:    b.style,
			CustomID: ActionCustomID(action),
			Emoji:    &discordgo.ComponentEmoji{Name: b.emoji},
			Disabled: !model.Allowed(kind, status, action),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: row}}
}

// ListEmbed lists subs, all by author, each linking back to its own
// moderation message.
func ListEmbed(spec *model.KindSpec, author model.UserRef, subs []*model.Submission, opts Options) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, sub := range subs {
		line := fmt.Sprintf("\\> [%s](%s): %s\n", sub.Title, utils.MessageLink(opts.GuildID, opts.ApprovalChannelID, sub.ID), sub.Status)
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(line) > 4096 {
			break
		}
		b.WriteString(line)
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s from %s", spec.ListNoun, author),
		Description: strings.TrimSuffix(b.String(), "\n"),
	}
}

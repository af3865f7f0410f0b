package submission

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/review"
	"github.com/TheFungusAmongUs/GeoBot/store"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

func respondEphemeral(s platform.Client, i *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Embeds:  embeds,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending ephemeral response: %v", err)
	}
}

func respondModal(s platform.Client, i *discordgo.InteractionCreate, modal *discordgo.InteractionResponse) {
	if err := s.InteractionRespond(i.Interaction, modal); err != nil {
		log.Printf("Error opening modal %s: %v", modal.Data.CustomID, err)
	}
}

// deferResponse acknowledges i so slow work can follow. Discord requires an
// answer within three seconds.
func deferResponse(s platform.Client, i *discordgo.InteractionCreate, ephemeral bool) bool {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Printf("Error sending deferred response: %v", err)
		return false
	}
	return true
}

func editResponse(s platform.Client, i *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	edit := &discordgo.WebhookEdit{Content: utils.StringPtr(content)}
	if len(embeds) > 0 {
		edit.Embeds = &embeds
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		log.Printf("Error editing interaction response: %v", err)
	}
}

// resultText renders an action result for the moderator. A persistence
// failure still carries a valid outcome.
func resultText(out review.Outcome, err error) string {
	if err == nil {
		return out.Text()
	}
	var persistErr *store.PersistenceError
	if errors.As(err, &persistErr) {
		return fmt.Sprintf("%s\n⚠️ The change is live but could not be saved: %v", out.Text(), persistErr.Err)
	}
	return errorText(err)
}

func errorText(err error) string {
	var publishErr *review.PublishError
	var persistErr *store.PersistenceError
	switch {
	case errors.Is(err, review.ErrStaleControl):
		return "This submission has already been handled."
	case errors.As(err, &publishErr):
		return fmt.Sprintf("❌ Could not publish, nothing was changed: %v", publishErr.Err)
	case errors.As(err, &persistErr):
		return fmt.Sprintf("⚠️ The change is live but could not be saved: %v", persistErr.Err)
	case errors.Is(err, model.ErrInvalidSubmission):
		return fmt.Sprintf("❌ %v", err)
	}
	return fmt.Sprintf("❌ Something went wrong: %v", err)
}

// interactionUser is the user who triggered i, in a guild or in DMs.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func memberRoles(i *discordgo.InteractionCreate) []string {
	if i.Member == nil {
		return nil
	}
	return i.Member.Roles
}

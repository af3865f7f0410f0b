package submission

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

var panelButtonStyles = map[model.Kind]discordgo.ButtonStyle{
	model.KindFeedback:  discordgo.SuccessButton,
	model.KindBugReport: discordgo.DangerButton,
	model.KindQuestion:  discordgo.PrimaryButton,
	model.KindTicket:    discordgo.SecondaryButton,
}

// Panel is the message members use to start a submission.
type Panel struct {
	client    platform.Client
	channelID string
	statePath string
}

func NewPanel(client platform.Client, channelID, statePath string) *Panel {
	return &Panel{client: client, channelID: channelID, statePath: statePath}
}

// CreatePanelMessage builds the panel with one button per kind.
func CreatePanelMessage() *discordgo.MessageSend {
	var buttons []discordgo.MessageComponent
	for _, kind := range model.Kinds() {
		spec := kind.Spec()
		buttons = append(buttons, discordgo.Button{
			Label:    spec.PanelLabel,
			Style:    panelButtonStyles[kind],
			CustomID: fmt.Sprintf("%s:%s", createPrefix, kind),
			Emoji:    &discordgo.ComponentEmoji{Name: spec.PanelEmoji},
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "Create Post/Bug Report",
			Description: "You can create a post or bug report by clicking on the respective button below :)\n\n" +
				"Feel free to give your feedback or ask any questions, just make sure it's on topic and constructive!",
			Color: 0x5865F2,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Any images can be added once the post has been approved!",
			},
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: buttons},
		},
	}
}

// Ensure posts the panel unless the last posted one still exists. It
// reports whether a new panel was posted.
func (p *Panel) Ensure(ctx context.Context) (bool, error) {
	if p.channelID == "" {
		return false, errors.New("panel channel is not configured")
	}

	state, err := utils.LoadPanelState(p.statePath)
	if err != nil {
		log.Printf("Error loading panel state: %v", err)
	}
	if state != nil && state.ChannelID == p.channelID {
		_, err := p.client.ChannelMessage(state.ChannelID, state.MessageID, discordgo.WithContext(ctx))
		if err == nil {
			return false, nil
		}
		if !platform.IsUnknownMessage(err) {
			return false, fmt.Errorf("checking panel message: %w", err)
		}
	}

	if _, err := p.Post(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Post sends a new panel and remembers where it is.
func (p *Panel) Post(ctx context.Context) (*discordgo.Message, error) {
	message, err := p.client.ChannelMessageSendComplex(p.channelID, CreatePanelMessage(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("sending panel message: %w", err)
	}

	// 保存面板状态到JSON文件
	if err := utils.SavePanelState(p.statePath, p.channelID, message.ID); err != nil {
		log.Printf("Error saving panel state: %v", err)
	}
	return message, nil
}

// PanelCommandHandler re-posts the panel on request of a moderator.
func (h *Handler) PanelCommandHandler(s platform.Client, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil || !h.isModerator(user.ID, memberRoles(i)) {
		respondEphemeral(s, i, "You do not have permission to do this.")
		return
	}
	if !deferResponse(s, i, true) {
		return
	}
	ctx, cancel := h.actionContext()
	defer cancel()

	if _, err := h.panel.Post(ctx); err != nil {
		log.Printf("Error posting panel: %v", err)
		editResponse(s, i, fmt.Sprintf("❌ Could not post the panel: %v", err))
		return
	}
	editResponse(s, i, "✅ Panel posted")
}

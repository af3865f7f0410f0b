package submission

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

const (
	titleInputID  = "title"
	reasonInputID = "reason"
)

func fieldInputID(i int) string {
	return fmt.Sprintf("field_%d", i)
}

// BuildSubmissionModal 创建并返回投稿表单; sub, when given, pre-fills it
func BuildSubmissionModal(kind model.Kind, customID string, sub *model.Submission) *discordgo.InteractionResponse {
	spec := kind.Spec()

	var title string
	if sub != nil {
		title = sub.Title
	}
	rows := []discordgo.MessageComponent{
		textInputRow(titleInputID, spec.Title, title),
	}
	for i, f := range spec.Fields {
		var value string
		if sub != nil {
			value, _ = sub.Content.Get(spec.SectionLabel(i))
		}
		rows = append(rows, textInputRow(fieldInputID(i), f, value))
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customID,
			Title:      spec.FormTitle,
			Components: rows,
		},
	}
}

func textInputRow(customID string, f model.Field, value string) discordgo.ActionsRow {
	style := discordgo.TextInputShort
	if f.Paragraph {
		style = discordgo.TextInputParagraph
	}
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    customID,
				Label:       f.Label,
				Style:       style,
				Placeholder: f.Placeholder,
				Value:       value,
				Required:    !f.Optional,
				MinLength:   f.MinLength,
				MaxLength:   f.MaxLength,
			},
		},
	}
}

// BuildDenyModal asks the moderator for the reason of a denial.
func BuildDenyModal(kind model.Kind, token string) *discordgo.InteractionResponse {
	noun := strings.ToLower(kind.Spec().Noun)
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: denyModalPrefix + ":" + token,
			Title:    fmt.Sprintf("Deny this %s", noun),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    reasonInputID,
							Label:       "Reason",
							Style:       discordgo.TextInputShort,
							Placeholder: fmt.Sprintf("Why is this %s being denied? :(", noun),
							Required:    true,
							MaxLength:   1000,
						},
					},
				},
			},
		},
	}
}

// modalValues collects the text inputs of a submitted modal by custom id.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		var inner []discordgo.MessageComponent
		switch r := row.(type) {
		case *discordgo.ActionsRow:
			inner = r.Components
		case discordgo.ActionsRow:
			inner = r.Components
		}
		for _, comp := range inner {
			switch in := comp.(type) {
			case *discordgo.TextInput:
				values[in.CustomID] = in.Value
			case discordgo.TextInput:
				values[in.CustomID] = in.Value
			}
		}
	}
	return values
}

// readSubmissionModal turns the inputs of a submission form back into a
// title and labelled content.
func readSubmissionModal(kind model.Kind, values map[string]string) (string, model.Sections) {
	spec := kind.Spec()
	var content model.Sections
	for i := range spec.Fields {
		content.Set(spec.SectionLabel(i), strings.TrimSpace(values[fieldInputID(i)]))
	}
	return strings.TrimSpace(values[titleInputID]), content
}

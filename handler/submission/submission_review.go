package submission

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/handler"
	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/review"
)

// ReviewButtonHandler handles every button on a moderation message. The
// control is found by the id of the message the button is on.
func (h *Handler) ReviewButtonHandler(s platform.Client, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil || !h.isModerator(user.ID, memberRoles(i)) {
		respondEphemeral(s, i, "You do not have permission to do this.")
		return
	}
	if i.Message == nil {
		return
	}
	c, ok := h.registry.Get(i.Message.ID)
	if !ok {
		respondEphemeral(s, i, "This submission is not tracked anymore.")
		return
	}

	_, arg := handler.SplitCustomID(i.MessageComponentData().CustomID)
	action := model.Action(arg)
	sub := c.Submission()

	switch action {
	case model.ActionList:
		respondEphemeral(s, i, "", c.List())
		return
	case model.ActionDuplicate:
		if !h.env.Options.EnableDuplicate {
			out, _ := c.Duplicate(context.Background())
			respondEphemeral(s, i, out.Text())
			return
		}
	}

	if !c.Can(action) {
		respondEphemeral(s, i, errorText(review.ErrStaleControl))
		return
	}

	switch action {
	case model.ActionDeny:
		token := h.pending.Add(model.PendingAction{MessageID: i.Message.ID, Action: action, ModeratorID: user.ID})
		respondModal(s, i, BuildDenyModal(sub.Kind, token))
	case model.ActionImprove:
		token := h.pending.Add(model.PendingAction{MessageID: i.Message.ID, Action: action, ModeratorID: user.ID})
		respondModal(s, i, BuildSubmissionModal(sub.Kind, improveModalPrefix+":"+token, sub))
	case model.ActionApprove, model.ActionDuplicate, model.ActionClose, model.ActionResolve, model.ActionReopen:
		if !deferResponse(s, i, false) {
			return
		}
		ctx, cancel := h.actionContext()
		defer cancel()

		out, err := c.Run(ctx, action)
		if err != nil {
			log.Printf("Error running %s on submission %s: %v", action, sub.ID, err)
		}
		editResponse(s, i, resultText(out, err))
	default:
		respondEphemeral(s, i, "Unknown action.")
	}
}

// takePending resolves the one-shot token of a follow-up modal to its
// control.
func (h *Handler) takePending(s platform.Client, i *discordgo.InteractionCreate, action model.Action) (*review.Control, bool) {
	_, token := handler.SplitCustomID(i.ModalSubmitData().CustomID)
	pending, ok := h.pending.Take(token)
	if !ok || pending.Action != action {
		respondEphemeral(s, i, "This form has expired, please press the button again.")
		return nil, false
	}
	c, ok := h.registry.Get(pending.MessageID)
	if !ok {
		respondEphemeral(s, i, "This submission is not tracked anymore.")
		return nil, false
	}
	return c, true
}

// DenyModalHandler denies the submission with the reason from the modal.
func (h *Handler) DenyModalHandler(s platform.Client, i *discordgo.InteractionCreate) {
	c, ok := h.takePending(s, i, model.ActionDeny)
	if !ok {
		return
	}
	reason := strings.TrimSpace(modalValues(i.ModalSubmitData())[reasonInputID])

	if !deferResponse(s, i, false) {
		return
	}
	ctx, cancel := h.actionContext()
	defer cancel()

	out, err := c.Deny(ctx, reason)
	if err != nil {
		log.Printf("Error denying submission %s: %v", c.Message().MessageID, err)
	}
	editResponse(s, i, resultText(out, err))
}

// ImproveModalHandler replaces title and content with the edited form.
func (h *Handler) ImproveModalHandler(s platform.Client, i *discordgo.InteractionCreate) {
	c, ok := h.takePending(s, i, model.ActionImprove)
	if !ok {
		return
	}
	kind := c.Submission().Kind
	title, content := readSubmissionModal(kind, modalValues(i.ModalSubmitData()))

	if !deferResponse(s, i, true) {
		return
	}
	ctx, cancel := h.actionContext()
	defer cancel()

	out, err := c.Improve(ctx, title, content)
	if err != nil {
		log.Printf("Error improving submission %s: %v", c.Message().MessageID, err)
	}
	editResponse(s, i, resultText(out, err))
}

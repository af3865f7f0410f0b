package submission

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/handler"
	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/review"
	"github.com/TheFungusAmongUs/GeoBot/store"
)

// CreateSubmissionButtonHandler opens the form of the kind named in the
// panel button.
func (h *Handler) CreateSubmissionButtonHandler(s platform.Client, i *discordgo.InteractionCreate) {
	_, arg := handler.SplitCustomID(i.MessageComponentData().CustomID)
	kind, err := model.ParseKind(arg)
	if err != nil {
		log.Printf("Error parsing kind of panel button: %v", err)
		respondEphemeral(s, i, "This button is no longer supported.")
		return
	}
	respondModal(s, i, BuildSubmissionModal(kind, submitModalPrefix+":"+string(kind), nil))
}

// SubmissionModalHandler posts a completed form for review.
func (h *Handler) SubmissionModalHandler(s platform.Client, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	_, arg := handler.SplitCustomID(data.CustomID)
	kind, err := model.ParseKind(arg)
	if err != nil {
		respondEphemeral(s, i, "This form is no longer supported.")
		return
	}

	user := interactionUser(i)
	if user == nil {
		return
	}
	h.directory.Remember(user)
	title, content := readSubmissionModal(kind, modalValues(data))

	if !deferResponse(s, i, true) {
		return
	}
	ctx, cancel := h.actionContext()
	defer cancel()

	sub, err := h.intake.Submit(ctx, kind, title, content, model.UserRefFromDiscord(user))
	if err != nil && (sub == nil || !errors.As(err, new(*store.PersistenceError))) {
		log.Printf("Error submitting %s from %s: %v", kind, user.ID, err)
		editResponse(s, i, errorText(err))
		return
	}
	editResponse(s, i, resultText(review.Outcome{Message: fmt.Sprintf("*%s Submitted*", kind.Spec().Noun)}, err), sub.Summary())
}

package handler

import (
	"log"
	"runtime/debug"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/platform"
)

// HandlerFunc handles one interaction.
type HandlerFunc func(s platform.Client, i *discordgo.InteractionCreate)

// Router dispatches interactions to handlers. Components and modals are keyed
// by the part of their custom id before the first ':'; the rest is left for
// the handler to parse.
type Router struct {
	commandHandlers   map[string]HandlerFunc
	componentHandlers map[string]HandlerFunc
	modalHandlers     map[string]HandlerFunc
}

func NewRouter() *Router {
	return &Router{
		commandHandlers:   make(map[string]HandlerFunc),
		componentHandlers: make(map[string]HandlerFunc),
		modalHandlers:     make(map[string]HandlerFunc),
	}
}

// AddCommandHandler registers a handler for a slash command.
func (r *Router) AddCommandHandler(name string, handler HandlerFunc) {
	r.commandHandlers[name] = handler
}

// AddComponentHandler registers a handler for a message component.
func (r *Router) AddComponentHandler(prefix string, handler HandlerFunc) {
	r.componentHandlers[prefix] = handler
}

// AddModalHandler registers a handler for a modal submission.
func (r *Router) AddModalHandler(prefix string, handler HandlerFunc) {
	r.modalHandlers[prefix] = handler
}

// OnInteractionCreate is the main interaction router.
// It is registered with the session in bot.registerEventHandlers.
func (r *Router) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	r.Dispatch(s, i)
}

// Dispatch runs the handler for i and reports whether one was found. A
// panicking handler is logged, the user gets an ephemeral error and the
// process keeps running.
func (r *Router) Dispatch(s platform.Client, i *discordgo.InteractionCreate) (handled bool) {
	var handler HandlerFunc
	var ok bool
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		handler, ok = r.commandHandlers[i.ApplicationCommandData().Name]
	case discordgo.InteractionMessageComponent:
		prefix, _ := SplitCustomID(i.MessageComponentData().CustomID)
		handler, ok = r.componentHandlers[prefix]
	case discordgo.InteractionModalSubmit:
		prefix, _ := SplitCustomID(i.ModalSubmitData().CustomID)
		handler, ok = r.modalHandlers[prefix]
	}
	if !ok {
		return false
	}

	handled = true
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Panic in interaction handler: %v\n%s", rec, debug.Stack())
			respondPanic(s, i)
		}
	}()
	handler(s, i)
	return handled
}

// respondPanic tells the user the interaction failed. If the handler already
// answered, Discord rejects this and the error is only logged.
func respondPanic(s platform.Client, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ Something went wrong, please try again later.",
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error reporting failed interaction: %v", err)
	}
}

// SplitCustomID splits "prefix:args" into its two parts.
func SplitCustomID(customID string) (prefix, args string) {
	prefix, args, _ = strings.Cut(customID, ":")
	return prefix, args
}

package submission

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

// LookupCommandHandler handles the /lookup command
func (h *Handler) LookupCommandHandler(s platform.Client, i *discordgo.InteractionCreate) {
	// 1. 解析参数
	caller := interactionUser(i)
	if caller == nil {
		return
	}
	targetID := caller.ID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" && opt.Type == discordgo.ApplicationCommandOptionUser {
			targetID = opt.UserValue(nil).ID
		}
	}
	if targetID != caller.ID && !h.isModerator(caller.ID, memberRoles(i)) {
		respondEphemeral(s, i, "You can only look up your own submissions.")
		return
	}

	if !deferResponse(s, i, true) {
		return
	}
	ctx, cancel := h.actionContext()
	defer cancel()

	// 2. 从存储获取投稿
	subs := h.env.Stores.FindByAuthor(targetID)
	if len(subs) == 0 {
		editResponse(s, i, fmt.Sprintf("No submissions found for <@%s>", targetID))
		return
	}

	author := model.UserRef{ID: targetID}
	if ref, err := h.directory.Resolve(ctx, targetID); err == nil {
		author = ref
	}
	editResponse(s, i, "", h.lookupEmbed(author, subs))
}

func (h *Handler) lookupEmbed(author model.UserRef, subs []*model.Submission) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, sub := range subs {
		link := utils.MessageLink(h.cfg.GuildID, h.cfg.ApprovalChannelID, sub.ID)
		line := fmt.Sprintf("\\> [%s](%s): %s • %s\n", sub.Title, link, sub.Kind.Spec().Noun, sub.Status)
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(line) > 4096 {
			break
		}
		b.WriteString(line)
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Submissions from %s", author),
		Description: strings.TrimSuffix(b.String(), "\n"),
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d submissions", len(subs))},
	}
}

package handler

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/platform/platformtest"
)

func componentInteraction(customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func TestSplitCustomID(t *testing.T) {
	prefix, args := SplitCustomID("review:approve")
	assert.Equal(t, "review", prefix)
	assert.Equal(t, "approve", args)

	prefix, args = SplitCustomID("deny_modal:abc:def")
	assert.Equal(t, "deny_modal", prefix)
	assert.Equal(t, "abc:def", args)

	prefix, args = SplitCustomID("plain")
	assert.Equal(t, "plain", prefix)
	assert.Empty(t, args)
}

func TestRouter_DispatchesByPrefix(t *testing.T) {
	r := NewRouter()
	var got []string
	r.AddComponentHandler("review", func(_ platform.Client, i *discordgo.InteractionCreate) {
		got = append(got, "review:"+i.MessageComponentData().CustomID)
	})
	r.AddModalHandler("deny_modal", func(_ platform.Client, i *discordgo.InteractionCreate) {
		got = append(got, "modal:"+i.ModalSubmitData().CustomID)
	})
	r.AddCommandHandler("lookup", func(_ platform.Client, i *discordgo.InteractionCreate) {
		got = append(got, "command:"+i.ApplicationCommandData().Name)
	})

	client := platformtest.New()
	assert.True(t, r.Dispatch(client, componentInteraction("review:approve")))
	assert.True(t, r.Dispatch(client, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionModalSubmit,
		Data: discordgo.ModalSubmitInteractionData{CustomID: "deny_modal:token"},
	}}))
	assert.True(t, r.Dispatch(client, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "lookup"},
	}}))
	assert.False(t, r.Dispatch(client, componentInteraction("unknown:thing")))

	assert.Equal(t, []string{"review:review:approve", "modal:deny_modal:token", "command:lookup"}, got)
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	r := NewRouter()
	r.AddComponentHandler("boom", func(platform.Client, *discordgo.InteractionCreate) {
		panic("handler failed")
	})

	client := platformtest.New()
	assert.NotPanics(t, func() {
		assert.True(t, r.Dispatch(client, componentInteraction("boom")))
	})

	resp := client.LastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Contains(t, resp.Data.Content, "Something went wrong")
}

package submission

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

func TestCreatePanelMessage(t *testing.T) {
	msg := CreatePanelMessage()

	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, "Create Post/Bug Report", msg.Embeds[0].Title)

	row := msg.Components[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, len(model.Kinds()))
	var ids []string
	for _, c := range row.Components {
		ids = append(ids, c.(discordgo.Button).CustomID)
	}
	assert.Equal(t, []string{
		"create_submission:FEEDBACK_QUESTION",
		"create_submission:BUG_REPORT",
		"create_submission:QUESTION",
		"create_submission:TICKET",
	}, ids)
}

func TestPanelEnsure(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	posted, err := b.panel.Ensure(ctx)
	require.NoError(t, err)
	assert.True(t, posted)
	assert.Equal(t, 1, b.client.SentCount())

	posted, err = b.panel.Ensure(ctx)
	require.NoError(t, err)
	assert.False(t, posted)
	assert.Equal(t, 1, b.client.SentCount())

	b.client.DeleteMessage(b.client.Sent[0].ID)
	posted, err = b.panel.Ensure(ctx)
	require.NoError(t, err)
	assert.True(t, posted)
	assert.Equal(t, 2, b.client.SentCount())
}

func TestPanelCommand(t *testing.T) {
	b := newTestBot(t)

	b.dispatch(t, slashCommand(authorID, "panel"))
	assert.Equal(t, "You do not have permission to do this.", b.client.LastResponse().Data.Content)
	assert.Equal(t, 0, b.client.SentCount())

	b.dispatch(t, slashCommand(moderatorID, "panel"))
	assert.Equal(t, "✅ Panel posted", lastEditContent(t, b.client))
	assert.Equal(t, 1, b.client.SentCount())
}

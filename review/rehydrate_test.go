package review

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/platform/platformtest"
	"github.com/TheFungusAmongUs/GeoBot/store"
)

// restart simulates a new process: fresh stores over the same data
// directory, a fresh registry, the same platform.
func (f *fixture) restart(t *testing.T) (*Registry, *Rehydrator) {
	t.Helper()
	stores, err := store.Open(model.Storage{DataDir: f.dataDir})
	require.NoError(t, err)
	f.stores = stores
	f.env = NewEnv(f.client, stores, f.cfg)
	registry := NewRegistry()
	return registry, NewRehydrator(f.env, registry, platform.NewDirectory(f.client))
}

func TestRehydrate_AttachesOneControlPerSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"First question title", "Second question title", "Third question title"} {
		sub, _ := f.submitQuestion(t, title)
		ids = append(ids, sub.ID)
	}
	ticket, err := f.intake.Submit(ctx, model.KindTicket, "My account is broken", model.Body("I cannot log in"), f.author)
	require.NoError(t, err)
	ids = append(ids, ticket.ID)

	registry, rh := f.restart(t)
	n, err := rh.Rehydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, registry.Len())

	for _, id := range ids {
		c, ok := registry.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, id, c.Message().MessageID)
		assert.Equal(t, "approval", c.Message().ChannelID)
		assert.Equal(t, id, c.Submission().ID)
	}
}

func TestRehydrate_ControlsKeepWorking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub, c := f.submitQuestion(t, questionTitle)
	_, err := c.Improve(ctx, "Improved title before restart", model.Body("details"))
	require.NoError(t, err)

	registry, rh := f.restart(t)
	_, err = rh.Rehydrate(ctx)
	require.NoError(t, err)

	rehydrated, ok := registry.Get(sub.ID)
	require.True(t, ok)
	_, err = rehydrated.Approve(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Improved title before restart"}, f.client.ThreadNames())
	assert.Equal(t, model.StatusApproved, f.reload(t, model.KindQuestion)[0].Status)

	_, err = rehydrated.Deny(ctx, "Off-topic")
	assert.ErrorIs(t, err, ErrStaleControl)
}

func TestRehydrate_TerminalSubmissionsStayDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub, c := f.submitQuestion(t, questionTitle)
	_, err := c.Deny(ctx, "Off-topic")
	require.NoError(t, err)

	registry, rh := f.restart(t)
	_, err = rh.Rehydrate(ctx)
	require.NoError(t, err)

	rehydrated, _ := registry.Get(sub.ID)
	assert.False(t, rehydrated.Can(model.ActionApprove))
	assert.True(t, rehydrated.Can(model.ActionList))
	_, err = rehydrated.Approve(ctx)
	assert.ErrorIs(t, err, ErrStaleControl)
}

func TestRehydrate_MissingMessageAbortsStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, _ := f.submitQuestion(t, "First question title")
	f.submitQuestion(t, "Second question title")
	ticket, err := f.intake.Submit(ctx, model.KindTicket, "My account is broken", model.Body("I cannot log in"), f.author)
	require.NoError(t, err)

	f.client.DeleteMessage(first.ID)

	registry, rh := f.restart(t)
	n, err := rh.Rehydrate(ctx)
	require.Error(t, err)
	assert.True(t, platform.IsUnknownMessage(err))
	assert.Equal(t, 1, n)

	_, ok := registry.Get(ticket.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, registry.Len())
}

func TestRehydrate_ReportsEveryFailingStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	question, _ := f.submitQuestion(t, "First question title")
	ticket, err := f.intake.Submit(ctx, model.KindTicket, "My account is broken", model.Body("I cannot log in"), f.author)
	require.NoError(t, err)

	f.client.DeleteMessage(question.ID)
	f.client.DeleteMessage(ticket.ID)

	registry, rh := f.restart(t)
	n, err := rh.Rehydrate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store questions")
	assert.Contains(t, err.Error(), "store tickets")
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, registry.Len())
}

func TestRehydrate_SkipsMissingMessagesWhenEnabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, _ := f.submitQuestion(t, "First question title")
	second, _ := f.submitQuestion(t, "Second question title")
	f.client.DeleteMessage(first.ID)

	f.cfg.Review.SkipMissingMessages = true
	registry, rh := f.restart(t)
	n, err := rh.Rehydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := registry.Get(second.ID)
	assert.True(t, ok)
	_, ok = registry.Get(first.ID)
	assert.False(t, ok)
}

func TestRehydrate_UnknownAuthorAbortsStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submitQuestion(t, "First question title")

	f.cfg.Review.SkipMissingMessages = true
	registry, rh := f.restart(t)
	f.client.Users = map[string]*discordgo.User{}

	_, err := rh.Rehydrate(ctx)
	var resolveErr *model.UserResolutionError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, "42", resolveErr.UserID)
	assert.Equal(t, 0, registry.Len())
}

func TestRehydrate_RedrawsOutdatedControls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub, _ := f.submitQuestion(t, questionTitle)

	// Replace the buttons with ones an older version would have drawn.
	f.client.Messages[sub.ID].Components = []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: "approve", Label: "Approve"},
		}},
	}

	_, rh := f.restart(t)
	_, err := rh.Rehydrate(ctx)
	require.NoError(t, err)

	edit := f.client.LastEdit()
	require.NotNil(t, edit)
	assert.Equal(t, sub.ID, edit.ID)
	assert.False(t, buttonDisabled(t, *edit.Components, model.ActionApprove))
}

func TestRehydrate_LeavesCurrentControlsAlone(t *testing.T) {
	f := newFixture(t)
	f.submitQuestion(t, questionTitle)

	_, rh := f.restart(t)
	_, err := rh.Rehydrate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, f.client.LastEdit())
}

var _ platform.Client = (*platformtest.Client)(nil)

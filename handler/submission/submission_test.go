package submission

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFungusAmongUs/GeoBot/handler"
	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/platform/platformtest"
	"github.com/TheFungusAmongUs/GeoBot/review"
	"github.com/TheFungusAmongUs/GeoBot/store"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

const (
	authorID    = "42"
	moderatorID = "99"
)

type testBot struct {
	client   *platformtest.Client
	router   *handler.Router
	registry *review.Registry
	pending  *utils.Cache
	stores   *store.Set
	panel    *Panel
	dataDir  string
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	client := platformtest.New()
	client.AddChannel("approval", discordgo.ChannelTypeGuildText)
	client.AddChannel("iaf", discordgo.ChannelTypeGuildForum)
	client.AddChannel("bugs", discordgo.ChannelTypeGuildText)
	client.AddChannel("panel", discordgo.ChannelTypeGuildText)
	client.AddUser(authorID, "author")
	client.AddUser(moderatorID, "mod")

	cfg := &model.Config{
		GuildID:             "1",
		ApprovalChannelID:   "approval",
		CreatePostChannelID: "panel",
		FeedbackChannelID:   "iaf",
		BugReportChannelID:  "bugs",
		Commands:            model.Commands{Auth: model.Auth{Developers: []string{moderatorID}}},
	}
	dataDir := t.TempDir()
	stores, err := store.Open(model.Storage{DataDir: dataDir})
	require.NoError(t, err)

	env := review.NewEnv(client, stores, cfg)
	registry := review.NewRegistry()
	pending := utils.NewCache(time.Minute)
	panel := NewPanel(client, cfg.CreatePostChannelID, filepath.Join(dataDir, "panel.json"))

	router := handler.NewRouter()
	New(cfg, env, registry, pending, platform.NewDirectory(client), panel).RegisterHandlers(router)
	return &testBot{client: client, router: router, registry: registry, pending: pending, stores: stores, panel: panel, dataDir: dataDir}
}

func member(userID string, roles ...string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID, Username: "user" + userID, Discriminator: "0"}, Roles: roles}
}

func buttonPress(userID, messageID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		Member:  member(userID),
		Message: &discordgo.Message{ID: messageID},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func modalSubmit(userID, customID string, values map[string]string) *discordgo.InteractionCreate {
	var rows []discordgo.MessageComponent
	for id, v := range values {
		rows = append(rows, &discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.TextInput{CustomID: id, Value: v},
		}})
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionModalSubmit,
		Member: member(userID),
		Data:   discordgo.ModalSubmitInteractionData{CustomID: customID, Components: rows},
	}}
}

func slashCommand(userID, name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: member(userID),
		Data:   discordgo.ApplicationCommandInteractionData{Name: name, Options: options},
	}}
}

func (b *testBot) dispatch(t *testing.T, i *discordgo.InteractionCreate) {
	t.Helper()
	require.True(t, b.router.Dispatch(b.client, i))
}

// submitQuestion runs the question form and returns the moderation message id.
func (b *testBot) submitQuestion(t *testing.T) string {
	t.Helper()
	b.dispatch(t, modalSubmit(authorID, "submission_modal:QUESTION", map[string]string{
		titleInputID:    "Why is Canada so big?",
		fieldInputID(0): "details",
	}))
	subs := b.stores.For(model.KindQuestion).All()
	require.NotEmpty(t, subs)
	return subs[len(subs)-1].ID
}

func lastEditContent(t *testing.T, c *platformtest.Client) string {
	t.Helper()
	edit := c.LastResponseEdit()
	require.NotNil(t, edit)
	require.NotNil(t, edit.Content)
	return *edit.Content
}

func TestCreateButton_OpensForm(t *testing.T) {
	b := newTestBot(t)

	b.dispatch(t, buttonPress(authorID, "panel-msg", "create_submission:BUG_REPORT"))

	resp := b.client.LastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, discordgo.InteractionResponseModal, resp.Type)
	assert.Equal(t, "submission_modal:BUG_REPORT", resp.Data.CustomID)
	// title plus one row per field
	assert.Len(t, resp.Data.Components, 1+len(model.KindBugReport.Spec().Fields))
}

func TestCreateButton_UnknownKind(t *testing.T) {
	b := newTestBot(t)

	b.dispatch(t, buttonPress(authorID, "panel-msg", "create_submission:POLL"))

	resp := b.client.LastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}

func TestSubmissionModal_PostsForReview(t *testing.T) {
	b := newTestBot(t)

	id := b.submitQuestion(t)

	_, ok := b.registry.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "*Question Submitted*", lastEditContent(t, b.client))

	msg, err := b.client.ChannelMessage("approval", id)
	require.NoError(t, err)
	assert.Equal(t, "Why is Canada so big?", msg.Embeds[0].Title)
}

func TestSubmissionModal_WarnsWhenNotSaved(t *testing.T) {
	b := newTestBot(t)
	// a directory in place of the questions file makes every write fail
	require.NoError(t, os.MkdirAll(filepath.Join(b.dataDir, "data.json", "blocker"), 0o755))

	b.dispatch(t, modalSubmit(authorID, "submission_modal:QUESTION", map[string]string{
		titleInputID:    "Why is Canada so big?",
		fieldInputID(0): "details",
	}))

	content := lastEditContent(t, b.client)
	assert.True(t, strings.HasPrefix(content, "*Question Submitted*\n"))
	assert.Contains(t, content, "could not be saved")
	assert.Equal(t, 1, b.registry.Len())
}

func TestSubmissionModal_Invalid(t *testing.T) {
	b := newTestBot(t)

	b.dispatch(t, modalSubmit(authorID, "submission_modal:QUESTION", map[string]string{
		titleInputID:    strings.Repeat("x", 101),
		fieldInputID(0): "details",
	}))

	assert.True(t, strings.HasPrefix(lastEditContent(t, b.client), "❌"))
	assert.Empty(t, b.stores.For(model.KindQuestion).All())
}

func TestReviewButton_RequiresModerator(t *testing.T) {
	b := newTestBot(t)
	id := b.submitQuestion(t)

	b.dispatch(t, buttonPress(authorID, id, "review:approve"))

	resp := b.client.LastResponse()
	assert.Equal(t, "You do not have permission to do this.", resp.Data.Content)
	sub, _ := b.stores.Get(id)
	assert.Equal(t, model.StatusInReview, sub.Status)
}

func TestReviewButton_Approve(t *testing.T) {
	b := newTestBot(t)
	id := b.submitQuestion(t)

	b.dispatch(t, buttonPress(moderatorID, id, "review:approve"))

	assert.Equal(t, "Question has been approved", lastEditContent(t, b.client))
	sub, _ := b.stores.Get(id)
	assert.Equal(t, model.StatusApproved, sub.Status)

	// a second press is answered without touching the submission
	b.dispatch(t, buttonPress(moderatorID, id, "review:deny"))
	assert.Equal(t, "This submission has already been handled.", b.client.LastResponse().Data.Content)
}

func TestReviewButton_UntrackedMessage(t *testing.T) {
	b := newTestBot(t)

	b.dispatch(t, buttonPress(moderatorID, "nope", "review:approve"))

	assert.Equal(t, "This submission is not tracked anymore.", b.client.LastResponse().Data.Content)
}

func TestDenyFlow(t *testing.T) {
	b := newTestBot(t)
	id := b.submitQuestion(t)

	b.dispatch(t, buttonPress(moderatorID, id, "review:deny"))
	resp := b.client.LastResponse()
	require.Equal(t, discordgo.InteractionResponseModal, resp.Type)
	require.True(t, strings.HasPrefix(resp.Data.CustomID, "deny_modal:"))
	assert.Equal(t, 1, b.pending.Len())

	b.dispatch(t, modalSubmit(moderatorID, resp.Data.CustomID, map[string]string{reasonInputID: "off topic"}))

	assert.Equal(t, "Question Denied\nUser was notified", lastEditContent(t, b.client))
	sub, _ := b.stores.Get(id)
	assert.Equal(t, model.StatusDenied, sub.Status)
	require.Len(t, b.client.DMs, 1)
	assert.Contains(t, b.client.DMs[0].Embed.Description, "off topic")

	// the token is single use
	b.dispatch(t, modalSubmit(moderatorID, resp.Data.CustomID, map[string]string{reasonInputID: "again"}))
	assert.Equal(t, "This form has expired, please press the button again.", b.client.LastResponse().Data.Content)
}

func TestImproveFlow(t *testing.T) {
	b := newTestBot(t)
	id := b.submitQuestion(t)

	b.dispatch(t, buttonPress(moderatorID, id, "review:improve"))
	resp := b.client.LastResponse()
	require.True(t, strings.HasPrefix(resp.Data.CustomID, "improve_modal:"))

	b.dispatch(t, modalSubmit(moderatorID, resp.Data.CustomID, map[string]string{
		titleInputID:    "Why is Canada so large?",
		fieldInputID(0): "more details",
	}))

	assert.Equal(t, "Question has been improved", lastEditContent(t, b.client))
	sub, _ := b.stores.Get(id)
	assert.Equal(t, "Why is Canada so large?", sub.Title)
	assert.Equal(t, model.StatusInReview, sub.Status)
}

func TestDuplicateButton_Placeholder(t *testing.T) {
	b := newTestBot(t)
	id := b.submitQuestion(t)

	b.dispatch(t, buttonPress(moderatorID, id, "review:duplicate"))

	assert.Equal(t, "Hmmm, you haven't unlocked that yet", b.client.LastResponse().Data.Content)
	sub, _ := b.stores.Get(id)
	assert.Equal(t, model.StatusInReview, sub.Status)
}

func TestListButton(t *testing.T) {
	b := newTestBot(t)
	first := b.submitQuestion(t)
	b.submitQuestion(t)

	b.dispatch(t, buttonPress(moderatorID, first, "review:list"))

	resp := b.client.LastResponse()
	require.Len(t, resp.Data.Embeds, 1)
	assert.Equal(t, 2, strings.Count(resp.Data.Embeds[0].Description, "IN_REVIEW"))
}

func TestLookupCommand(t *testing.T) {
	b := newTestBot(t)
	id := b.submitQuestion(t)

	b.dispatch(t, slashCommand(authorID, "lookup"))

	edit := b.client.LastResponseEdit()
	require.NotNil(t, edit.Embeds)
	embeds := *edit.Embeds
	require.Len(t, embeds, 1)
	assert.Contains(t, embeds[0].Description, "https://discord.com/channels/1/approval/"+id)
	assert.Contains(t, embeds[0].Description, "Question • IN_REVIEW")
}

func TestLookupCommand_OtherUserNeedsModerator(t *testing.T) {
	b := newTestBot(t)
	b.submitQuestion(t)
	opt := &discordgo.ApplicationCommandInteractionDataOption{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: authorID}

	b.dispatch(t, slashCommand("43", "lookup", opt))
	assert.Equal(t, "You can only look up your own submissions.", b.client.LastResponse().Data.Content)

	b.dispatch(t, slashCommand(moderatorID, "lookup", opt))
	edit := b.client.LastResponseEdit()
	require.NotNil(t, edit.Embeds)
	assert.Equal(t, "Submissions from user42", (*edit.Embeds)[0].Title)
}

func TestLookupCommand_NothingFound(t *testing.T) {
	b := newTestBot(t)

	b.dispatch(t, slashCommand(authorID, "lookup"))

	assert.Equal(t, "No submissions found for <@42>", lastEditContent(t, b.client))
}

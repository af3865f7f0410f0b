// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Thread records one discussion thread started by the bot.
type Thread struct {
	ParentID  string
	MessageID string
	Name      string
	Message   *discordgo.MessageSend
}

// DM records one direct message.
type DM struct {
	UserID string
	Embed  *discordgo.MessageEmbed
}

// Client is a fake platform.Client. Exported error fields make the matching
// call fail; slices record what the code under test did.
type Client struct {
	mu     sync.Mutex
	nextID uint64

	Users    map[string]*discordgo.User
	Channels map[string]*discordgo.Channel
	Messages map[string]*discordgo.Message

	Sent            []*discordgo.Message
	Edits           []*discordgo.MessageEdit
	Threads         []Thread
	CreatedChannels []discordgo.GuildChannelCreateData
	DMs             []DM
	Responses       []*discordgo.InteractionResponse
	ResponseEdits   []*discordgo.WebhookEdit
	Statuses        []string

	SendErr   error
	EditErr   error
	ThreadErr error
	DMErr     error

	// OnThread runs before a thread is created, outside the lock.
	OnThread func()
}

func New() *Client {
	return &Client{
		nextID:   1000,
		Users:    make(map[string]*discordgo.User),
		Channels: make(map[string]*discordgo.Channel),
		Messages: make(map[string]*discordgo.Message),
	}
}

func (c *Client) newID() string {
	c.nextID++
	return strconv.FormatUint(c.nextID, 10)
}

func (c *Client) AddUser(id, username string) *discordgo.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := &discordgo.User{ID: id, Username: username, Discriminator: "0"}
	c.Users[id] = u
	return u
}

func (c *Client) AddChannel(id string, typ discordgo.ChannelType) *discordgo.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := &discordgo.Channel{ID: id, GuildID: "guild", Type: typ, Name: "channel-" + id}
	c.Channels[id] = ch
	return ch
}

func (c *Client) DeleteMessage(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Messages, id)
}

// ThreadNames lists the names of every thread started so far.
func (c *Client) ThreadNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var names []string
	for _, th := range c.Threads {
		names = append(names, th.Name)
	}
	return names
}

// Snapshot helpers keep tests free of data races.

func (c *Client) SentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Sent)
}

func (c *Client) DMCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.DMs)
}

func (c *Client) LastEdit() *discordgo.MessageEdit {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Edits) == 0 {
		return nil
	}
	return c.Edits[len(c.Edits)-1]
}

func (c *Client) LastResponse() *discordgo.InteractionResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Responses) == 0 {
		return nil
	}
	return c.Responses[len(c.Responses)-1]
}

func (c *Client) LastResponseEdit() *discordgo.WebhookEdit {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.ResponseEdits) == 0 {
		return nil
	}
	return c.ResponseEdits[len(c.ResponseEdits)-1]
}

// ForbiddenError is what Discord returns for a DM to a user with DMs closed.
func ForbiddenError() error {
	return restError(http.StatusForbidden, discordgo.ErrCodeCannotSendMessagesToThisUser, "Cannot send messages to this user")
}

// UnknownMessageError is what Discord returns for a deleted message.
func UnknownMessageError() error {
	return restError(http.StatusNotFound, discordgo.ErrCodeUnknownMessage, "Unknown Message")
}

func restError(status, code int, message string) error {
	return &discordgo.RESTError{
		Response:     &http.Response{StatusCode: status, Status: strconv.Itoa(status) + " " + http.StatusText(status)},
		ResponseBody: []byte(message),
		Message:      &discordgo.APIErrorMessage{Code: code, Message: message},
	}
}

func (c *Client) User(userID string, _ ...discordgo.RequestOption) (*discordgo.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.Users[userID]
	if !ok {
		return nil, restError(http.StatusNotFound, discordgo.ErrCodeUnknownUser, "Unknown User")
	}
	return u, nil
}

func (c *Client) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.Channels[channelID]
	if !ok {
		return nil, restError(http.StatusNotFound, discordgo.ErrCodeUnknownChannel, "Unknown Channel")
	}
	return ch, nil
}

func (c *Client) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.Messages[messageID]
	if !ok || m.ChannelID != channelID {
		return nil, UnknownMessageError()
	}
	return m, nil
}

func (c *Client) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return nil, c.SendErr
	}
	m := &discordgo.Message{
		ID:         c.newID(),
		ChannelID:  channelID,
		Content:    data.Content,
		Embeds:     data.Embeds,
		Components: data.Components,
	}
	if data.Embed != nil {
		m.Embeds = append([]*discordgo.MessageEmbed{data.Embed}, m.Embeds...)
	}
	c.Messages[m.ID] = m
	c.Sent = append(c.Sent, m)
	return m, nil
}

func (c *Client) ChannelMessageEditComplex(edit *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EditErr != nil {
		return nil, c.EditErr
	}
	m, ok := c.Messages[edit.ID]
	if !ok || m.ChannelID != edit.Channel {
		return nil, UnknownMessageError()
	}
	if edit.Components != nil {
		m.Components = *edit.Components
	}
	if edit.Embeds != nil {
		m.Embeds = *edit.Embeds
	}
	c.Edits = append(c.Edits, edit)
	return m, nil
}

func (c *Client) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.HasPrefix(channelID, "dm-") {
		if c.DMErr != nil {
			return nil, c.DMErr
		}
		c.DMs = append(c.DMs, DM{UserID: strings.TrimPrefix(channelID, "dm-"), Embed: embed})
		return &discordgo.Message{ID: c.newID(), ChannelID: channelID, Embeds: []*discordgo.MessageEmbed{embed}}, nil
	}
	if c.SendErr != nil {
		return nil, c.SendErr
	}
	m := &discordgo.Message{ID: c.newID(), ChannelID: channelID, Embeds: []*discordgo.MessageEmbed{embed}}
	c.Messages[m.ID] = m
	c.Sent = append(c.Sent, m)
	return m, nil
}

func (c *Client) ForumThreadStartComplex(channelID string, threadData *discordgo.ThreadStart, messageData *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if c.OnThread != nil {
		c.OnThread()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ThreadErr != nil {
		return nil, c.ThreadErr
	}
	th := &discordgo.Channel{ID: c.newID(), ParentID: channelID, Name: threadData.Name, Type: discordgo.ChannelTypeGuildPublicThread}
	c.Threads = append(c.Threads, Thread{ParentID: channelID, Name: threadData.Name, Message: messageData})
	return th, nil
}

func (c *Client) MessageThreadStartComplex(channelID, messageID string, data *discordgo.ThreadStart, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if c.OnThread != nil {
		c.OnThread()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ThreadErr != nil {
		return nil, c.ThreadErr
	}
	th := &discordgo.Channel{ID: c.newID(), ParentID: channelID, Name: data.Name, Type: discordgo.ChannelTypeGuildPublicThread}
	c.Threads = append(c.Threads, Thread{ParentID: channelID, MessageID: messageID, Name: data.Name})
	return th, nil
}

func (c *Client) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ThreadErr != nil {
		return nil, c.ThreadErr
	}
	ch := &discordgo.Channel{ID: c.newID(), GuildID: guildID, ParentID: data.ParentID, Name: data.Name, Type: data.Type}
	c.Channels[ch.ID] = ch
	c.CreatedChannels = append(c.CreatedChannels, data)
	return ch, nil
}

func (c *Client) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

func (c *Client) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Responses = append(c.Responses, resp)
	return nil
}

func (c *Client) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ResponseEdits = append(c.ResponseEdits, edit)
	return &discordgo.Message{ID: c.newID()}, nil
}

func (c *Client) UpdateGameStatus(_ int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Statuses = append(c.Statuses, name)
	return nil
}

package def

import "github.com/bwmarrin/discordgo"

var LookupCommand = &discordgo.ApplicationCommand{
	Name:        "lookup",
	Description: "List the submissions of a member",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to look up (defaults to yourself)",
			Required:    false,
		},
	},
}

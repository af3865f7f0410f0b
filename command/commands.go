package command

import (
	"github.com/TheFungusAmongUs/GeoBot/command/def"

	"github.com/bwmarrin/discordgo"
)

// AllCommands contains all of the commands
var AllCommands = []*discordgo.ApplicationCommand{
	def.LookupCommand,
	def.PanelCommand,
}

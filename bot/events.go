package bot

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/handler"
)

func registerEventHandlers(s *discordgo.Session, router *handler.Router) {
	s.AddHandler(router.OnInteractionCreate)
	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as %s", r.User.String())
	})

	// 设置必要的intents
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
}

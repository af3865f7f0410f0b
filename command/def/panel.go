package def

import "github.com/bwmarrin/discordgo"

var adminPermission int64 = discordgo.PermissionManageMessages

var PanelCommand = &discordgo.ApplicationCommand{
	Name:                     "panel",
	Description:              "Post the submission panel in the configured channel",
	DefaultMemberPermissions: &adminPermission,
}

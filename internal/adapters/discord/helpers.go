package discord

import "github.com/bwmarrin/discordgo"

// interactionUserID: en guild viene en Member, en DM en User.
func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

func optStr(ic *discordgo.InteractionCreate, name string) (string, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue(), true
		}
	}
	return "", false
}

func optInt(ic *discordgo.InteractionCreate, name string) (int, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return 0, false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return int(o.IntValue()), true
		}
	}
	return 0, false
}

package discord

import "github.com/bwmarrin/discordgo"

func (r *Router) requireAdminOrRoles(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil {
		ReplyEphemeral(s, ic, "🔒 This command only works inside a server.")
		return false
	}

	ownerID := ""
	if g, _ := s.State.Guild(ic.GuildID); g != nil {
		ownerID = g.OwnerID
	}
	roles, _ := s.GuildRoles(ic.GuildID)

	if isAdmin(ownerID, interactionUserID(ic), ic.Member.Roles, roles, r.adminRoleIDs) {
		return true
	}
	ReplyEphemeral(s, ic, "🔒 You do not have permission to do that.")
	return false
}

// isAdmin: owner, bit Administrator o alguno de los roles configurados.
func isAdmin(ownerID, userID string, memberRoles []string, guildRoles []*discordgo.Role, adminRoleIDs []string) bool {
	if ownerID != "" && userID == ownerID {
		return true
	}

	has := make(map[string]struct{}, len(memberRoles))
	for _, rid := range memberRoles {
		has[rid] = struct{}{}
	}

	for _, ro := range guildRoles {
		if _, ok := has[ro.ID]; ok && ro.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	// Roles explícitos del bot
	for _, want := range adminRoleIDs {
		if _, ok := has[want]; ok {
			return true
		}
	}
	return false
}

package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestIsAdmin(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "r-admin", Permissions: discordgo.PermissionAdministrator},
		{ID: "r-dj", Permissions: discordgo.PermissionSendMessages},
		{ID: "r-member"},
	}

	cases := []struct {
		name   string
		user   string
		member []string
		extra  []string
		want   bool
	}{
		{"owner", "owner", nil, nil, true},
		{"administrator bit", "u1", []string{"r-member", "r-admin"}, nil, true},
		{"configured role", "u1", []string{"r-dj"}, []string{"r-dj"}, true},
		{"plain member", "u1", []string{"r-member", "r-dj"}, nil, false},
		{"no roles", "u1", nil, []string{"r-dj"}, false},
	}
	for _, tc := range cases {
		if got := isAdmin("owner", tc.user, tc.member, roles, tc.extra); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestInteractionUserID(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: &discordgo.Member{User: &discordgo.User{ID: "m"}}}}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "d"}}}
	if interactionUserID(guild) != "m" || interactionUserID(dm) != "d" {
		t.Error("Unexpected interaction user ids")
	}
}

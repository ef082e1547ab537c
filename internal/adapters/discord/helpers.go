package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func optStr(data discordgo.ApplicationCommandInteractionData, name string) (string, bool) {
	for _, o := range data.Options {
		if o == nil || o.Name != name {
			continue
		}
		if o.Type != discordgo.ApplicationCommandOptionString {
			return "", false
		}
		s, ok := o.Value.(string)
		return s, ok
	}
	return "", false
}

// invoker: en guild viene en Member.User, en DM en User.
func invoker(ic *discordgo.Interaction) (id, name string) {
	var u *discordgo.User
	if ic.Member != nil && ic.Member.User != nil {
		u = ic.Member.User
	} else if ic.User != nil {
		u = ic.User
	}
	if u == nil {
		return "", "Unknown"
	}
	name = u.GlobalName
	if name == "" {
		name = u.Username
	}
	if name == "" {
		name = "Unknown"
	}
	return u.ID, name
}

func guildKey(ic *discordgo.Interaction, userID string) string {
	if ic.GuildID != "" {
		return ic.GuildID
	}
	return "dm:" + userID
}

func mention(userID string) string {
	if userID == "" {
		return "Unknown"
	}
	return "<@" + userID + ">"
}

// link arma [title](url) escapando los corchetes del título.
func link(title, url string) string {
	r := strings.NewReplacer("[", "\\[", "]", "\\]")
	return fmt.Sprintf("[%s](%s)", r.Replace(title), url)
}

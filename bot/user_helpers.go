package bot

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// DisplayName is the name stored on the ledger for a user. Legacy accounts
// keep their four digit discriminator, which the leaderboard strips.
func DisplayName(user *discordgo.User) string {
	if user == nil {
		return "Unknown"
	}
	if user.Discriminator != "" && user.Discriminator != "0" {
		return user.Username + "#" + user.Discriminator
	}
	return user.Username
}

// UserID converts a Discord snowflake to the ledger's account id
func UserID(user *discordgo.User) (int64, error) {
	return strconv.ParseInt(user.ID, 10, 64)
}

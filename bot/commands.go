package bot

import (
	"regexp"
	"strconv"
	"strings"
)

// CommandName is the canonical name of a chat command
type CommandName string

const (
	CommandRegister    CommandName = "register"
	CommandBalance     CommandName = "balance"
	CommandReset       CommandName = "reset"
	CommandLeaderboard CommandName = "leaderboard"
	CommandBlackjack   CommandName = "blackjack"
	CommandHit         CommandName = "hit"
	CommandStand       CommandName = "stand"
	CommandFlip        CommandName = "flip"
	CommandRoll        CommandName = "roll"
	CommandHistory     CommandName = "history"
)

var commandAliases = map[string]CommandName{
	"register":    CommandRegister,
	"balance":     CommandBalance,
	"bal":         CommandBalance,
	"av":          CommandBalance,
	"reset":       CommandReset,
	"leaderboard": CommandLeaderboard,
	"lb":          CommandLeaderboard,
	"blackjack":   CommandBlackjack,
	"bj":          CommandBlackjack,
	"hit":         CommandHit,
	"stand":       CommandStand,
	"flip":        CommandFlip,
	"roll":        CommandRoll,
	"history":     CommandHistory,
}

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// Command is a parsed chat command
type Command struct {
	Name CommandName
	Args []string
}

// Arg returns the i-th argument or "" when absent
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// ParseCommand recognizes prefix commands. Matching is case-insensitive on
// the command word; arguments are passed through untouched.
func ParseCommand(prefix, content string) (Command, bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return Command{}, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return Command{}, false
	}

	name, ok := commandAliases[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, false
	}

	return Command{Name: name, Args: fields[1:]}, true
}

// ParseMention extracts the user id from a <@id> or <@!id> mention
func ParseMention(token string) (int64, bool) {
	match := mentionPattern.FindStringSubmatch(strings.TrimSpace(token))
	if match == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

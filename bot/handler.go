package bot

import (
	"context"

	"github.com/LevBernstein/BeardlessBot-sub000/models"

	log "github.com/sirupsen/logrus"
)

const historyLimit = 5

// Ledger is the account surface the commands need
type Ledger interface {
	GetBalance(ctx context.Context, discordID int64) (int64, error)
	Register(ctx context.Context, discordID int64, username string) (bool, int64, error)
	Reset(ctx context.Context, discordID int64, username string) (int64, error)
	TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
	History(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// BlackjackGame plays hands of blackjack
type BlackjackGame interface {
	Start(ctx context.Context, discordID int64, betToken string) (*models.BlackjackResult, error)
	Hit(ctx context.Context, discordID int64) (*models.BlackjackResult, error)
	Stand(ctx context.Context, discordID int64) (*models.BlackjackResult, error)
}

// CoinFlipGame wagers on a coin toss
type CoinFlipGame interface {
	Flip(ctx context.Context, discordID int64, betToken string) (*models.FlipResult, error)
}

// DiceRoller rolls unwagered dice
type DiceRoller interface {
	Roll(expression string) (*models.RollResult, error)
}

// Request is one command invocation from a chat user
type Request struct {
	AuthorID   int64
	AuthorName string
	Command    Command
}

// Handler turns commands into replies. It knows nothing about Discord.
type Handler struct {
	prefix          string
	leaderboardSize int
	ledger          Ledger
	blackjack       BlackjackGame
	coinFlip        CoinFlipGame
	dice            DiceRoller
}

// NewHandler creates a command handler
func NewHandler(prefix string, leaderboardSize int, ledger Ledger, blackjack BlackjackGame, coinFlip CoinFlipGame, dice DiceRoller) *Handler {
	return &Handler{
		prefix:          prefix,
		leaderboardSize: leaderboardSize,
		ledger:          ledger,
		blackjack:       blackjack,
		coinFlip:        coinFlip,
		dice:            dice,
	}
}

// Handle executes a command and returns the reply text
func (h *Handler) Handle(ctx context.Context, req Request) string {
	log.WithFields(log.Fields{
		"command": req.Command.Name,
		"user":    req.AuthorID,
		"args":    req.Command.Args,
	}).Debug("Handling command")

	reply, err := h.dispatch(ctx, req)
	if err != nil {
		return RenderError(req.AuthorID, err, h.prefix)
	}
	return reply
}

func (h *Handler) dispatch(ctx context.Context, req Request) (string, error) {
	id := req.AuthorID
	cmd := req.Command

	switch cmd.Name {
	case CommandRegister:
		created, balance, err := h.ledger.Register(ctx, id, req.AuthorName)
		if err != nil {
			return "", err
		}
		return RenderRegister(id, created, balance, h.prefix), nil

	case CommandBalance:
		target := id
		if mentioned, ok := ParseMention(cmd.Arg(0)); ok {
			target = mentioned
		}
		balance, err := h.ledger.GetBalance(ctx, target)
		if err != nil {
			return "", err
		}
		return RenderBalance(target, balance), nil

	case CommandReset:
		balance, err := h.ledger.Reset(ctx, id, req.AuthorName)
		if err != nil {
			return "", err
		}
		return RenderReset(id, balance), nil

	case CommandLeaderboard:
		entries, err := h.ledger.TopN(ctx, h.leaderboardSize)
		if err != nil {
			return "", err
		}
		return RenderLeaderboard(entries), nil

	case CommandHistory:
		history, err := h.ledger.History(ctx, id, historyLimit)
		if err != nil {
			return "", err
		}
		return RenderHistory(id, history), nil

	case CommandBlackjack:
		result, err := h.blackjack.Start(ctx, id, cmd.Arg(0))
		if err != nil {
			return "", err
		}
		return RenderBlackjack(id, result, h.prefix), nil

	case CommandHit:
		result, err := h.blackjack.Hit(ctx, id)
		if err != nil {
			return "", err
		}
		return RenderBlackjack(id, result, h.prefix), nil

	case CommandStand:
		result, err := h.blackjack.Stand(ctx, id)
		if err != nil {
			return "", err
		}
		return RenderBlackjack(id, result, h.prefix), nil

	case CommandFlip:
		result, err := h.coinFlip.Flip(ctx, id, cmd.Arg(0))
		if err != nil {
			return "", err
		}
		return RenderFlip(id, result), nil

	case CommandRoll:
		result, err := h.dice.Roll(cmd.Arg(0))
		if err != nil {
			return "", err
		}
		return RenderRoll(id, result), nil
	}

	return "", nil
}

package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token         string
	CommandPrefix string
}

const commandTimeout = 10 * time.Second

// messageSender posts replies to a channel
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Bot struct {
	config  Config
	session *discordgo.Session
	handler *Handler
}

// New opens a Discord session that answers prefix commands
func New(config Config, handler *Handler) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	bot := &Bot{
		config:  config,
		session: dg,
		handler: handler,
	}

	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithFields(log.Fields{
			"user":   r.User.Username,
			"guilds": len(r.Guilds),
		}).Info("Discord session ready")
	})

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.respond(s, m)
}

// respond parses a message and posts the reply. Bot authors are ignored.
func (b *Bot) respond(sender messageSender, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	cmd, ok := ParseCommand(b.config.CommandPrefix, m.Content)
	if !ok {
		return
	}

	authorID, err := UserID(m.Author)
	if err != nil {
		log.WithFields(log.Fields{
			"author": m.Author.ID,
			"error":  err,
		}).Warn("Ignoring message with unparsable author id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply := b.handler.Handle(ctx, Request{
		AuthorID:   authorID,
		AuthorName: DisplayName(m.Author),
		Command:    cmd,
	})
	if reply == "" {
		return
	}

	if _, err := sender.ChannelMessageSend(m.ChannelID, reply); err != nil {
		log.WithFields(log.Fields{
			"channel": m.ChannelID,
			"command": cmd.Name,
			"error":   err,
		}).Error("Failed to send reply")
	}
}

package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
)

const defaultReadyTimeout = 30 * time.Second

// restSession is the subset of *discordgo.Session the adapters call.
type restSession interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// OpenSession connects the bot gateway and waits for the Ready event.
// The caller owns the returned session and must Close it.
func OpenSession(ctx context.Context, token string, readyTimeout time.Duration, logger *logging.Logger) (*discordgo.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, crerr.New("discord bot token is required")
	}
	if readyTimeout <= 0 {
		readyTimeout = defaultReadyTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, crerr.Wrap(err, "create discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	ready := make(chan string, 1)
	session.AddHandlerOnce(func(_ *discordgo.Session, r *discordgo.Ready) {
		tag := ""
		if r.User != nil {
			tag = r.User.String()
		}
		ready <- tag
	})

	if err := session.Open(); err != nil {
		return nil, crerr.Wrap(err, "open discord gateway")
	}

	timer := time.NewTimer(readyTimeout)
	defer timer.Stop()

	select {
	case tag := <-ready:
		logger.InfoContext(ctx, "discord session ready", "user", tag)
		return session, nil
	case <-ctx.Done():
		_ = session.Close()
		return nil, crerr.Wrap(ctx.Err(), "wait for discord ready")
	case <-timer.C:
		_ = session.Close()
		return nil, crerr.Newf("discord ready event not received within %s", readyTimeout)
	}
}

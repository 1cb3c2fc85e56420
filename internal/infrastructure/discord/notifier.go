package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prissleague/internal/domain/rolesync"
)

var errNotTextChannel = crerr.New("channel does not accept text messages")

// ChannelNotifier posts messages to one text channel.
type ChannelNotifier struct {
	session   restSession
	channelID string
}

func NewChannelNotifier(session *discordgo.Session, channelID string) (*ChannelNotifier, error) {
	if session == nil {
		return nil, crerr.New("discord session is required")
	}
	return newChannelNotifier(session, channelID)
}

func newChannelNotifier(session restSession, channelID string) (*ChannelNotifier, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, crerr.New("discord channel id is required")
	}
	return &ChannelNotifier{session: session, channelID: channelID}, nil
}

func (n *ChannelNotifier) Notify(ctx context.Context, message string) error {
	channel, err := n.session.Channel(n.channelID, discordgo.WithContext(ctx))
	if err != nil {
		return crerr.Wrapf(err, "fetch channel %s", n.channelID)
	}
	if !isTextBased(channel.Type) {
		return crerr.Wrapf(errNotTextChannel, "channel %s type=%d", n.channelID, channel.Type)
	}
	if _, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx)); err != nil {
		return crerr.Wrapf(err, "send message to channel %s", n.channelID)
	}
	return nil
}

func isTextBased(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeDM,
		discordgo.ChannelTypeGroupDM,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildVoice,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return true
	default:
		return false
	}
}

var _ rolesync.Notifier = (*ChannelNotifier)(nil)

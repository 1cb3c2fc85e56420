package discord

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prissleague/internal/domain/rolesync"
)

// GuildClient talks to one guild over the REST API.
type GuildClient struct {
	session restSession
	guildID string
}

func NewGuildClient(session *discordgo.Session, guildID string) (*GuildClient, error) {
	if session == nil {
		return nil, crerr.New("discord session is required")
	}
	return newGuildClient(session, guildID)
}

func newGuildClient(session restSession, guildID string) (*GuildClient, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return nil, crerr.New("discord guild id is required")
	}
	return &GuildClient{session: session, guildID: guildID}, nil
}

func (c *GuildClient) FetchGuild(ctx context.Context) (rolesync.Guild, error) {
	g, err := c.session.Guild(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return rolesync.Guild{}, crerr.Wrapf(err, "fetch guild %s", c.guildID)
	}
	return rolesync.Guild{ID: g.ID, Name: g.Name}, nil
}

func (c *GuildClient) Member(ctx context.Context, memberID string) (rolesync.Member, bool, error) {
	m, err := c.session.GuildMember(c.guildID, memberID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknown(err, discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser) {
			return rolesync.Member{}, false, nil
		}
		return rolesync.Member{}, false, crerr.Wrapf(err, "fetch member %s", memberID)
	}
	return rolesync.Member{ID: memberID, RoleIDs: slices.Clone(m.Roles)}, true, nil
}

func (c *GuildClient) RoleExists(ctx context.Context, roleID string) (bool, error) {
	roles, err := c.session.GuildRoles(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return false, crerr.Wrapf(err, "fetch roles of guild %s", c.guildID)
	}
	for _, role := range roles {
		if role != nil && role.ID == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (c *GuildClient) AddRole(ctx context.Context, memberID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(c.guildID, memberID, roleID, discordgo.WithContext(ctx)); err != nil {
		return crerr.Wrapf(err, "add role %s to member %s", roleID, memberID)
	}
	return nil
}

func (c *GuildClient) RemoveRole(ctx context.Context, memberID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(c.guildID, memberID, roleID, discordgo.WithContext(ctx)); err != nil {
		return crerr.Wrapf(err, "remove role %s from member %s", roleID, memberID)
	}
	return nil
}

// isUnknown reports a 404 or one of the given API error codes.
func isUnknown(err error, codes ...int) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && slices.Contains(codes, restErr.Message.Code) {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

var _ rolesync.GuildClient = (*GuildClient)(nil)

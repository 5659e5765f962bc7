// Package resolver decides which team context an inbound event belongs to
// when the command itself names none.
package resolver

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"teambot/internal/logging"
	"teambot/internal/team"
)

const nameCacheSize = 512

// NameLookup fetches a channel's display name. Implemented by the chat
// transport; results are cached by the resolver.
type NameLookup interface {
	ChannelName(ctx context.Context, channelID string) (string, error)
}

// ThreadTeams reads the team bound to an existing thread.
type ThreadTeams interface {
	ThreadTeam(channelID, threadTS string) string
}

// ChannelSettings reads the persisted channel→team binding.
type ChannelSettings interface {
	ChannelTeamSetting(channelID string) string
}

// Resolver applies the fallback chain: thread continuity → persisted channel
// setting → channel-name inference.
type Resolver struct {
	teams     *team.Directory
	threads   ThreadTeams
	settings  ChannelSettings
	names     NameLookup
	nameCache *lru.Cache[string, string]
	logger    logging.Logger
}

// New builds a resolver. The channel-name cache is bounded; entries are
// never invalidated since Slack channel renames are rare and harmless here.
func New(teams *team.Directory, threads ThreadTeams, settings ChannelSettings, names NameLookup, logger logging.Logger) (*Resolver, error) {
	cache, err := lru.New[string, string](nameCacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		teams:     teams,
		threads:   threads,
		settings:  settings,
		names:     names,
		nameCache: cache,
		logger:    logging.OrNop(logger),
	}, nil
}

// Resolve returns the team key for an event that carried no explicit team.
// threadTS is the parent thread timestamp, or "" when the event is not part
// of an existing thread. An empty result means the default/root context and
// is not an error.
func (r *Resolver) Resolve(ctx context.Context, channelID, threadTS string) string {
	if threadTS != "" {
		if key := r.threads.ThreadTeam(channelID, threadTS); key != "" {
			r.logger.Debug("resolver: %s/%s → thread team %s", channelID, threadTS, key)
			return key
		}
	}

	if key := r.settings.ChannelTeamSetting(channelID); key != "" {
		r.logger.Debug("resolver: %s → channel setting %s", channelID, key)
		return key
	}

	name := r.channelName(ctx, channelID)
	if name == "" {
		return ""
	}
	key := r.teams.ResolveByChannelName(name)
	r.logger.Debug("resolver: %s → channel %q → team %q", channelID, name, key)
	return key
}

func (r *Resolver) channelName(ctx context.Context, channelID string) string {
	if cached, ok := r.nameCache.Get(channelID); ok {
		return cached
	}
	if r.names == nil {
		return ""
	}
	name, err := r.names.ChannelName(ctx, channelID)
	if err != nil {
		r.logger.Warn("resolver: channel name lookup failed for %s: %v", channelID, err)
		return ""
	}
	if name != "" {
		r.nameCache.Add(channelID, name)
	}
	return name
}

// Package team holds the static directory of team contexts the bot can route
// conversations to: canonical keys, display metadata, short aliases, and
// channel-name hints.
package team

import "strings"

// Descriptor describes a single team context. Descriptors are defined at
// process start and never mutated.
type Descriptor struct {
	// Key is the canonical team key users type (e.g. "마케팅").
	Key string
	// Name is the display name (e.g. "마케팅팀").
	Name string
	// Folder is the storage folder under the agents root.
	Folder string
	// DocPath is the knowledge document path relative to the agents root.
	DocPath string
	// Emoji is the display glyph prefixed to replies.
	Emoji string
}

// Label renders the reply prefix for a team ("📢 마케팅팀").
func (d Descriptor) Label() string {
	return d.Emoji + " " + d.Name
}

// RootLabel is the reply prefix for the default/root context.
const RootLabel = "🏢 CEO"

// RootDocPath is the knowledge document for the default/root context,
// relative to the agents root.
const RootDocPath = "CLAUDE.md"

// Directory is a read-only lookup service over the team set. It is
// constructed once and injected; there is no package-level singleton.
type Directory struct {
	teams      map[string]Descriptor
	order      []string
	aliases    map[string]string
	channelMap []channelHint
}

// channelHint maps a channel-name prefix to a team key. Order matters: the
// first matching prefix wins.
type channelHint struct {
	prefix string
	key    string
}

// New builds a directory from descriptors, an alias table, and an ordered
// channel-name hint table.
func New(teams []Descriptor, aliases map[string]string, channelHints [][2]string) *Directory {
	d := &Directory{
		teams:   make(map[string]Descriptor, len(teams)),
		aliases: make(map[string]string, len(aliases)),
	}
	for _, t := range teams {
		d.teams[t.Key] = t
		d.order = append(d.order, t.Key)
	}
	for alias, key := range aliases {
		d.aliases[alias] = key
	}
	for _, hint := range channelHints {
		d.channelMap = append(d.channelMap, channelHint{prefix: hint[0], key: hint[1]})
	}
	return d
}

// Get returns the descriptor for a canonical key.
func (d *Directory) Get(key string) (Descriptor, bool) {
	t, ok := d.teams[key]
	return t, ok
}

// Keys returns canonical keys in definition order.
func (d *Directory) Keys() []string {
	return append([]string(nil), d.order...)
}

// Label returns the reply prefix for a team key, or RootLabel when the key
// is empty or unknown.
func (d *Directory) Label(key string) string {
	if t, ok := d.teams[key]; ok {
		return t.Label()
	}
	return RootLabel
}

// ResolveKey maps user input to a canonical team key. Matching is
// case-sensitive and exact: canonical keys first, then the alias table.
// Returns "" when the input names no team.
func (d *Directory) ResolveKey(input string) string {
	normalized := strings.TrimSpace(input)
	if normalized == "" {
		return ""
	}
	if _, ok := d.teams[normalized]; ok {
		return normalized
	}
	if key, ok := d.aliases[normalized]; ok {
		return key
	}
	return ""
}

// ResolveByChannelName infers a team key from a channel display name: exact
// match against the hint table, then a prefix match on "name-" / "name_"
// boundaries. The first matching hint wins. Returns "" when nothing matches.
func (d *Directory) ResolveByChannelName(channelName string) string {
	name := strings.ToLower(strings.TrimSpace(channelName))
	if name == "" {
		return ""
	}
	for _, hint := range d.channelMap {
		if name == hint.prefix {
			return hint.key
		}
	}
	for _, hint := range d.channelMap {
		if strings.HasPrefix(name, hint.prefix+"-") || strings.HasPrefix(name, hint.prefix+"_") {
			return hint.key
		}
	}
	return ""
}

// Default returns the directory shipped with the bot: eight Korean business
// teams with short Korean and English aliases.
func Default() *Directory {
	teams := []Descriptor{
		{Key: "마케팅", Name: "마케팅팀", Folder: "marketing", DocPath: "marketing/CLAUDE.md", Emoji: "📢"},
		{Key: "콘텐츠", Name: "콘텐츠팀", Folder: "content", DocPath: "content/CLAUDE.md", Emoji: "✍️"},
		{Key: "디자인", Name: "디자인팀", Folder: "design", DocPath: "design/CLAUDE.md", Emoji: "🎨"},
		{Key: "개발", Name: "개발팀", Folder: "development", DocPath: "development/CLAUDE.md", Emoji: "💻"},
		{Key: "이커머스", Name: "이커머스팀", Folder: "ecommerce", DocPath: "ecommerce/CLAUDE.md", Emoji: "🛒"},
		{Key: "재무", Name: "재무/경영지원팀", Folder: "finance-ops", DocPath: "finance-ops/CLAUDE.md", Emoji: "💰"},
		{Key: "전략", Name: "전략기획실", Folder: "strategic-hq", DocPath: "strategic-hq/CLAUDE.md", Emoji: "📋"},
		{Key: "에이전트컨설팅", Name: "에이전트 컨설팅팀", Folder: "agent-consulting", DocPath: "agent-consulting/CLAUDE.md", Emoji: "🤖"},
	}
	aliases := map[string]string{
		"마케": "마케팅",
		"콘텐": "콘텐츠",
		"디자": "디자인",
		"이커": "이커머스",
		"컨설": "에이전트컨설팅",
		"mk":  "마케팅",
		"ct":  "콘텐츠",
		"ds":  "디자인",
		"dev": "개발",
		"ec":  "이커머스",
		"fn":  "재무",
		"st":  "전략",
		"ac":  "에이전트컨설팅",
	}
	channelHints := [][2]string{
		{"ct", "콘텐츠"},
		{"mk", "마케팅"},
		{"ds", "디자인"},
		{"dev", "개발"},
		{"ec", "이커머스"},
		{"fn", "재무"},
		{"st", "전략"},
		{"ac", "에이전트컨설팅"},
		{"content", "콘텐츠"},
		{"marketing", "마케팅"},
		{"design", "디자인"},
		{"development", "개발"},
		{"ecommerce", "이커머스"},
		{"finance", "재무"},
		{"strategic", "전략"},
		{"consulting", "에이전트컨설팅"},
	}
	return New(teams, aliases, channelHints)
}

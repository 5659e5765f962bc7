// Package history persists per-thread conversation turns and per-channel
// team settings as two flat JSON tables. Every write is a whole-table
// read-modify-write serialized behind a mutex.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"teambot/internal/logging"
)

// MaxTurnsPerThread caps the stored turn sequence per thread; the oldest
// turns are evicted first.
const MaxTurnsPerThread = 20

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single recorded conversation turn. Immutable once appended.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is the role/content pair handed to the generation backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// threadRecord is the persisted per-thread state. The team key is set by the
// first turn that carries one and never overwritten afterwards.
type threadRecord struct {
	Team  string `json:"team,omitempty"`
	Turns []Turn `json:"messages"`
}

// Store owns the two persisted tables. Safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	dataDir      string
	threadsPath  string
	settingsPath string
	logger       logging.Logger
	now          func() time.Time
}

// New creates a store rooted at dataDir, creating the directory and empty
// table files when absent.
func New(dataDir string, logger logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{
		dataDir:      dataDir,
		threadsPath:  filepath.Join(dataDir, "conversations.json"),
		settingsPath: filepath.Join(dataDir, "channel-settings.json"),
		logger:       logging.OrNop(logger),
		now:          time.Now,
	}
	for _, path := range []string{s.threadsPath, s.settingsPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
				return nil, fmt.Errorf("init table %s: %w", path, err)
			}
		}
	}
	return s, nil
}

func threadKey(channelID, threadTS string) string {
	return channelID + ":" + threadTS
}

// loadThreads reads the full thread table. A missing or corrupt file yields
// an empty table; corruption is logged and overwritten on the next save.
func (s *Store) loadThreads() map[string]*threadRecord {
	table := map[string]*threadRecord{}
	data, err := os.ReadFile(s.threadsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("history: read %s: %v", s.threadsPath, err)
		}
		return table
	}
	if err := json.Unmarshal(data, &table); err != nil {
		s.logger.Warn("history: corrupt thread table, starting empty: %v", err)
		return map[string]*threadRecord{}
	}
	return table
}

func (s *Store) saveThreads(table map[string]*threadRecord) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.threadsPath, data, 0o644)
}

// SaveTurn appends a turn to the thread record, creating it when absent.
// The team key is only set when the record has none yet (first-writer-wins);
// the turn sequence is truncated to the most recent MaxTurnsPerThread.
func (s *Store) SaveTurn(channelID, threadTS, teamKey string, role Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.loadThreads()
	key := threadKey(channelID, threadTS)
	record, ok := table[key]
	if !ok {
		record = &threadRecord{Team: teamKey}
		table[key] = record
	}
	if teamKey != "" && record.Team == "" {
		record.Team = teamKey
	}
	record.Turns = append(record.Turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
	if len(record.Turns) > MaxTurnsPerThread {
		record.Turns = record.Turns[len(record.Turns)-MaxTurnsPerThread:]
	}
	return s.saveThreads(table)
}

// History returns the thread's turns as generation messages, oldest first.
func (s *Store) History(channelID, threadTS string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.loadThreads()[threadKey(channelID, threadTS)]
	if !ok {
		return nil
	}
	messages := make([]Message, 0, len(record.Turns))
	for _, turn := range record.Turns {
		messages = append(messages, Message{Role: turn.Role, Content: turn.Content})
	}
	return messages
}

// ThreadTeam returns the team key bound to a thread, or "" when the thread
// is unknown or unbound.
func (s *Store) ThreadTeam(channelID, threadTS string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.loadThreads()[threadKey(channelID, threadTS)]; ok {
		return record.Team
	}
	return ""
}

// ─── Channel settings ───

func (s *Store) loadSettings() map[string]string {
	settings := map[string]string{}
	data, err := os.ReadFile(s.settingsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("history: read %s: %v", s.settingsPath, err)
		}
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.Warn("history: corrupt settings table, starting empty: %v", err)
		return map[string]string{}
	}
	return settings
}

func (s *Store) saveSettings(settings map[string]string) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.settingsPath, data, 0o644)
}

// SetChannelTeam binds a channel to a team, overwriting any prior binding.
func (s *Store) SetChannelTeam(channelID, teamKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.loadSettings()
	settings[channelID] = teamKey
	return s.saveSettings(settings)
}

// ChannelTeamSetting returns the team bound to a channel, or "".
func (s *Store) ChannelTeamSetting(channelID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadSettings()[channelID]
}

// ClearChannelTeam removes a channel's team binding.
func (s *Store) ClearChannelTeam(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.loadSettings()
	delete(settings, channelID)
	return s.saveSettings(settings)
}

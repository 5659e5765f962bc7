// Package knowledge reads and mutates the per-team knowledge documents
// (CLAUDE.md files). Items live as bullet lists under fixed section headers;
// insertion is position-aware so hand-edited content around the target
// section survives byte-for-byte.
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"teambot/internal/logging"
	"teambot/internal/team"
)

// ErrDocumentNotFound is returned when a team's document cannot be read.
var ErrDocumentNotFound = errors.New("knowledge document not found")

// Kind selects which section of a document an item belongs to.
type Kind string

const (
	KindLearning Kind = "learning"
	KindStandard Kind = "standard"
)

// Header returns the fixed markdown section header for the kind.
func (k Kind) Header() string {
	if k == KindStandard {
		return "## ⛔ 기준"
	}
	return "## 💡 학습"
}

// Label returns the short display label used in chat messages.
func (k Kind) Label() string {
	if k == KindStandard {
		return "⛔ 기준"
	}
	return "💡 학습"
}

// KoreanName returns the bare Korean noun for the kind.
func (k Kind) KoreanName() string {
	if k == KindStandard {
		return "기준"
	}
	return "학습"
}

// placeholderPattern matches the "no items registered yet" line for the kind.
func (k Kind) placeholderPattern() *regexp.Regexp {
	if k == KindStandard {
		return standardPlaceholder
	}
	return learningPlaceholder
}

var (
	learningPlaceholder = regexp.MustCompile(`\(아직 등록된 학습이? 없음\.?\)`)
	standardPlaceholder = regexp.MustCompile(`\(아직 등록된 기준이? 없음\.?\)`)
	// listPlaceholder excludes placeholder bullets when listing; the
	// fullwidth paren variant appears in some hand-authored documents.
	listPlaceholder = regexp.MustCompile(`^[\(（]아직 등록된`)
	// nextSection finds the next top-level section boundary.
	nextSection = regexp.MustCompile(`\n## `)
)

// Repository locates and mutates documents under a root directory, one per
// team plus a root/default document.
type Repository struct {
	rootDir string
	teams   *team.Directory
	logger  logging.Logger
}

// NewRepository builds a repository over rootDir using the team directory
// for path lookup.
func NewRepository(rootDir string, teams *team.Directory, logger logging.Logger) *Repository {
	return &Repository{
		rootDir: rootDir,
		teams:   teams,
		logger:  logging.OrNop(logger),
	}
}

// docPath resolves the document path for a team key; "" selects the root
// document.
func (r *Repository) docPath(teamKey string) (string, error) {
	if teamKey == "" {
		return filepath.Join(r.rootDir, team.RootDocPath), nil
	}
	t, ok := r.teams.Get(teamKey)
	if !ok {
		return "", fmt.Errorf("unknown team: %s", teamKey)
	}
	return filepath.Join(r.rootDir, t.DocPath), nil
}

// Read returns the document content for a team ("" selects the root
// document). A missing or unreadable file yields ErrDocumentNotFound.
func (r *Repository) Read(teamKey string) (string, error) {
	path, err := r.docPath(teamKey)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	return string(data), nil
}

// AppendItem inserts a bullet item into the kind's section:
//
//  1. No section header anywhere → append header plus item at the end.
//  2. Placeholder "(아직 등록된 … 없음)" present → replace it in place.
//  3. Section has bullets → insert after the last bullet in the section span.
//  4. Section exists but is blank → insert right after the header line.
//
// The previous content is copied to a ".bak" sibling first; a backup failure
// is logged and never blocks the primary write.
func (r *Repository) AppendItem(teamKey string, kind Kind, content string) error {
	path, err := r.docPath(teamKey)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	original := string(data)

	if err := os.WriteFile(path+".bak", data, 0o644); err != nil {
		r.logger.Warn("knowledge: backup write failed for %s: %v", path, err)
	}

	result := insertItem(original, kind, content)
	if err := os.WriteFile(path, []byte(result), 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// insertItem performs the pure text mutation. Split out for tests.
func insertItem(original string, kind Kind, content string) string {
	header := kind.Header()
	newItem := "- " + content

	headerIdx := strings.Index(original, header)
	if headerIdx == -1 {
		return strings.TrimRight(original, " \t\r\n") + "\n\n" + header + "\n" + newItem + "\n"
	}

	if loc := kind.placeholderPattern().FindStringIndex(original); loc != nil {
		return original[:loc[0]] + newItem + original[loc[1]:]
	}

	// Section span: from the header to the next top-level header or EOF.
	afterHeader := original[headerIdx+len(header):]
	sectionEnd := len(original)
	if loc := nextSection.FindStringIndex(afterHeader); loc != nil {
		sectionEnd = headerIdx + len(header) + loc[0]
	}
	sectionContent := original[headerIdx:sectionEnd]

	lastItemIdx := strings.LastIndex(sectionContent, "\n- ")
	var insertAfter int
	if lastItemIdx == -1 {
		// Blank section: insert right after the header line.
		insertAfter = headerIdx + len(header)
	} else {
		insertAfter = headerIdx + lastItemIdx + 1
	}
	lineEnd := strings.Index(original[insertAfter:], "\n")
	pos := len(original)
	if lineEnd != -1 {
		pos = insertAfter + lineEnd
	}
	return original[:pos] + "\n" + newItem + original[pos:]
}

// List extracts the trimmed bullet items of the kind's section, excluding
// placeholder lines. A document without the section yields an empty list.
func (r *Repository) List(teamKey string, kind Kind) ([]string, error) {
	content, err := r.Read(teamKey)
	if err != nil {
		return nil, err
	}
	return extractItems(content, kind), nil
}

func extractItems(content string, kind Kind) []string {
	header := kind.Header()
	headerIdx := strings.Index(content, header)
	if headerIdx == -1 {
		return nil
	}

	sectionText := content[headerIdx+len(header):]
	if loc := nextSection.FindStringIndex(sectionText); loc != nil {
		sectionText = sectionText[:loc[0]]
	}

	var items []string
	for _, line := range strings.Split(sectionText, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- ") {
			continue
		}
		item := strings.TrimSpace(trimmed[2:])
		if listPlaceholder.MatchString(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teambot/internal/team"
)

const sampleDoc = `# 마케팅팀

역할 설명이 여기 있다.

## 💡 학습
(아직 등록된 학습이 없음)

## ⛔ 기준
- 식약처 광고 심의 준수

## 기타
그 외 내용.
`

func newRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "marketing"), 0o755))
	docPath := filepath.Join(dir, "marketing", "CLAUDE.md")
	require.NoError(t, os.WriteFile(docPath, []byte(sampleDoc), 0o644))
	return NewRepository(dir, team.Default(), nil), docPath
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestAppendItemReplacesPlaceholder(t *testing.T) {
	repo, docPath := newRepo(t)

	require.NoError(t, repo.AppendItem("마케팅", KindLearning, "CTR 높은 방법"))

	got := readDoc(t, docPath)
	assert.Contains(t, got, "## 💡 학습\n- CTR 높은 방법\n")
	assert.NotContains(t, got, "아직 등록된 학습")
}

func TestAppendItemPreservesOutsideContent(t *testing.T) {
	repo, docPath := newRepo(t)

	require.NoError(t, repo.AppendItem("마케팅", KindLearning, "새 학습"))

	got := readDoc(t, docPath)
	// Everything outside the 학습 section is byte-for-byte unchanged.
	assert.True(t, strings.HasPrefix(got, "# 마케팅팀\n\n역할 설명이 여기 있다.\n"))
	assert.Contains(t, got, "## ⛔ 기준\n- 식약처 광고 심의 준수\n")
	assert.True(t, strings.HasSuffix(got, "## 기타\n그 외 내용.\n"))
}

func TestAppendItemAfterLastBullet(t *testing.T) {
	repo, docPath := newRepo(t)

	require.NoError(t, repo.AppendItem("마케팅", KindStandard, "브랜드 톤 유지"))

	got := readDoc(t, docPath)
	assert.Contains(t, got, "## ⛔ 기준\n- 식약처 광고 심의 준수\n- 브랜드 톤 유지\n")
}

func TestAppendItemOrderingPreserved(t *testing.T) {
	repo, _ := newRepo(t)

	require.NoError(t, repo.AppendItem("마케팅", KindLearning, "첫째"))
	require.NoError(t, repo.AppendItem("마케팅", KindLearning, "둘째"))
	require.NoError(t, repo.AppendItem("마케팅", KindLearning, "셋째"))

	items, err := repo.List("마케팅", KindLearning)
	require.NoError(t, err)
	assert.Equal(t, []string{"첫째", "둘째", "셋째"}, items)
}

func TestAppendItemMissingSectionAppendsAtEnd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "design"), 0o755))
	docPath := filepath.Join(dir, "design", "CLAUDE.md")
	require.NoError(t, os.WriteFile(docPath, []byte("# 디자인팀\n\n설명.\n\n\n"), 0o644))
	repo := NewRepository(dir, team.Default(), nil)

	require.NoError(t, repo.AppendItem("디자인", KindLearning, "여백 활용"))

	got := readDoc(t, docPath)
	assert.Equal(t, "# 디자인팀\n\n설명.\n\n## 💡 학습\n- 여백 활용\n", got)
}

func TestAppendItemBlankSection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "design"), 0o755))
	docPath := filepath.Join(dir, "design", "CLAUDE.md")
	doc := "# 디자인팀\n\n## 💡 학습\n\n## ⛔ 기준\n- 기존 기준\n"
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0o644))
	repo := NewRepository(dir, team.Default(), nil)

	require.NoError(t, repo.AppendItem("디자인", KindLearning, "새 항목"))

	got := readDoc(t, docPath)
	assert.Contains(t, got, "## 💡 학습\n- 새 항목\n")
	assert.Contains(t, got, "## ⛔ 기준\n- 기존 기준\n")
}

func TestAppendItemDocumentNotFound(t *testing.T) {
	repo := NewRepository(t.TempDir(), team.Default(), nil)
	err := repo.AppendItem("마케팅", KindLearning, "x")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestAppendItemWritesBackup(t *testing.T) {
	repo, docPath := newRepo(t)

	require.NoError(t, repo.AppendItem("마케팅", KindLearning, "백업 확인"))

	backup := readDoc(t, docPath+".bak")
	assert.Equal(t, sampleDoc, backup)
}

func TestListExcludesPlaceholder(t *testing.T) {
	repo, _ := newRepo(t)

	items, err := repo.List("마케팅", KindLearning)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.List("마케팅", KindStandard)
	require.NoError(t, err)
	assert.Equal(t, []string{"식약처 광고 심의 준수"}, items)
}

func TestListStopsAtNextSection(t *testing.T) {
	repo, docPath := newRepo(t)
	doc := "## 💡 학습\n- 학습 항목\n\n## ⛔ 기준\n- 기준 항목\n"
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0o644))

	items, err := repo.List("마케팅", KindLearning)
	require.NoError(t, err)
	assert.Equal(t, []string{"학습 항목"}, items)
}

func TestReadRootDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("# CEO\n"), 0o644))
	repo := NewRepository(dir, team.Default(), nil)

	content, err := repo.Read("")
	require.NoError(t, err)
	assert.Equal(t, "# CEO\n", content)
}

func TestInsertItemOptionalParticlePlaceholder(t *testing.T) {
	got := insertItem("## ⛔ 기준\n(아직 등록된 기준 없음.)\n", KindStandard, "새 기준")
	assert.Equal(t, "## ⛔ 기준\n- 새 기준\n", got)
}

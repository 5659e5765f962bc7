// Package review drives the registration review flow: it asks the model to
// critique a proposed learning or standard against the team's document,
// extracts a suggested improvement when the model offers one, and parks the
// request until the user picks an option.
package review

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"teambot/internal/knowledge"
	"teambot/internal/llm"
	"teambot/internal/logging"
)

const reviewMaxTokens = 2048

const reviewFallback = "(검토 결과를 생성하지 못했습니다)"

const standardStrictNote = "\n- 기준은 모든 결과물에 강제 적용되므로 더욱 엄격하게 검토하세요.\n- \"이 기준이 다른 업무를 과도하게 제한하지 않는지\"도 반드시 검토하세요."

// Result is the model's critique plus the improvement it proposed, if any.
type Result struct {
	Text     string
	Improved string
}

// Extractor pulls a proposed improvement out of review text. Extraction is a
// heuristic over free-form model output, so it lives behind an interface and
// can be swapped without touching the reviewer.
type Extractor interface {
	Extract(reviewText string) (improved string, ok bool)
}

var improvedLinePattern = regexp.MustCompile(`개선안:\s*(.+?)(?:\n|$)`)

type lineExtractor struct{}

// NewLineExtractor matches the first "개선안:" line of the review text and
// returns the remainder of that line.
func NewLineExtractor() Extractor {
	return lineExtractor{}
}

func (lineExtractor) Extract(reviewText string) (string, bool) {
	m := improvedLinePattern.FindStringSubmatch(reviewText)
	if m == nil {
		return "", false
	}
	improved := strings.TrimSpace(m[1])
	if improved == "" {
		return "", false
	}
	return improved, true
}

// Reviewer asks the model to evaluate a registration request.
type Reviewer struct {
	client    llm.Client
	extractor Extractor
	logger    logging.Logger
}

func NewReviewer(client llm.Client, extractor Extractor, logger logging.Logger) *Reviewer {
	if extractor == nil {
		extractor = NewLineExtractor()
	}
	return &Reviewer{
		client:    client,
		extractor: extractor,
		logger:    logging.OrNop(logger),
	}
}

// Review critiques content against the team document and returns the review
// text together with any extracted improvement.
func (r *Reviewer) Review(ctx context.Context, teamDoc string, kind knowledge.Kind, content string) (Result, error) {
	prompt := buildReviewPrompt(kind, content)
	text, err := r.client.Complete(ctx, llm.Request{
		System:    teamDoc,
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: reviewMaxTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("review request: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		text = reviewFallback
	}
	res := Result{Text: text}
	if improved, ok := r.extractor.Extract(text); ok {
		res.Improved = improved
		r.logger.Debug("review: extracted improvement (%d chars)", len(improved))
	}
	return res, nil
}

func buildReviewPrompt(kind knowledge.Kind, content string) string {
	label := kind.Label()
	strictNote := ""
	if kind == knowledge.KindStandard {
		strictNote = standardStrictNote
	}
	return fmt.Sprintf(`다음은 %s 등록 요청입니다. 아래 5가지 항목을 검토해주세요.%s

등록 요청 내용: "%s"

검토 항목:
1. 유효성: 내용이 사실에 부합하는지
2. 구체성: 너무 모호하지 않은지, 실행 가능한 수준인지
3. 충돌 여부: 기존 등록된 학습/기준과 모순되지 않는지
4. 범위: 해당 팀에 맞는 내용인지
5. 개선 가능성: 더 정확하거나 유용하게 다듬을 수 있는지

다음 형식으로 응답해주세요:

📋 [%s] 등록 검토 결과

✅ 유효성: [판단 결과]
📏 구체성: [판단 결과]
🔄 기존 내용과 충돌: [있음/없음 + 상세]
📂 범위 적합성: [판단 결과]

💡 개선 제안: (있는 경우)
   - 원본: %s
   - 개선안: [더 나은 버전]
   - 이유: [왜 개선안이 나은지]

개선안이 없으면 "개선 제안 없음 - 원본이 충분히 명확합니다."라고 작성해주세요.`,
		label, strictNote, content, label, content)
}

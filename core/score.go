package core

import (
	"regexp"
	"strings"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

var (
	issueRefPattern     = regexp.MustCompile(`#\d+`)
	conventionalPattern = regexp.MustCompile(`^(feat|fix|docs|style|refactor|test|chore)(\([^)]+\))?!?: .+`)
	revertPattern       = regexp.MustCompile(`(?i)^revert\b`)
)

// vagueWords are summaries that convey nothing on their own.
var vagueWords = map[string]struct{}{
	"fix":     {},
	"fixes":   {},
	"update":  {},
	"updates": {},
	"change":  {},
	"changes": {},
	"wip":     {},
	"stuff":   {},
	"misc":    {},
	"cleanup": {},
}

// messageShape is the pre-computed view of a commit message that every
// scoring signal reads from.
type messageShape struct {
	message  string
	summary  string
	body     string
	parents  int
	minLen   int
	idealLen int
}

func newMessageShape(message string, parentCount, minLen, idealLen int) messageShape {
	summary := contract.FirstLine(message)
	body := ""
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		body = strings.TrimSpace(message[i+1:])
	}
	return messageShape{
		message:  message,
		summary:  summary,
		body:     body,
		parents:  parentCount,
		minLen:   minLen,
		idealLen: idealLen,
	}
}

// signal is one independent, pure scoring contribution. New signals are
// added to scoringSignals below; nothing else changes.
type signal struct {
	name  string
	score func(s messageShape, w schema.ScoreWeights) float64
}

// scoringSignals is the ordered registry of quality signals. Order only
// affects explain output; contributions are commutative.
var scoringSignals = []signal{
	{"issue_ref", func(s messageShape, w schema.ScoreWeights) float64 {
		if HasIssueRef(s.message) {
			return w.IssueRef
		}
		return 0
	}},
	{"conventional", func(s messageShape, w schema.ScoreWeights) float64 {
		if FollowsConvention(s.summary) {
			return w.Conventional
		}
		return 0
	}},
	{"length", func(s messageShape, w schema.ScoreWeights) float64 {
		n := len(s.summary)
		if n < s.minLen {
			return 0
		}
		if n >= s.idealLen {
			return w.GoodLength + w.IdealLength
		}
		return w.GoodLength
	}},
	{"has_body", func(s messageShape, w schema.ScoreWeights) float64 {
		if s.body != "" {
			return w.HasBody
		}
		return 0
	}},
	{"not_merge", func(s messageShape, w schema.ScoreWeights) float64 {
		if s.parents <= 1 {
			return w.NotMerge
		}
		return 0
	}},
	{"vague", func(s messageShape, w schema.ScoreWeights) float64 {
		if IsVagueMessage(s.summary) {
			return -w.Vague
		}
		return 0
	}},
	{"hotfix", func(s messageShape, w schema.ScoreWeights) float64 {
		if IsHotfix(s.message) {
			return -w.Hotfix
		}
		return 0
	}},
}

// ScoreMessage computes the rule-based quality score for a commit
// message. Pure and total: the empty message simply collects no
// bonuses. The result is clamped to [0, 10].
func ScoreMessage(message string, parentCount int, w schema.ScoreWeights, minLen, idealLen int) float64 {
	s := newMessageShape(message, parentCount, minLen, idealLen)
	score := w.Base
	for _, sig := range scoringSignals {
		score += sig.score(s, w)
	}
	return clampScore(score)
}

// ScoreBreakdown returns the per-signal contributions, keyed by signal
// name. Used by the MCP score tool and explain-style output.
func ScoreBreakdown(message string, parentCount int, w schema.ScoreWeights, minLen, idealLen int) map[string]float64 {
	s := newMessageShape(message, parentCount, minLen, idealLen)
	out := make(map[string]float64, len(scoringSignals)+1)
	out["base"] = w.Base
	for _, sig := range scoringSignals {
		out[sig.name] = sig.score(s, w)
	}
	return out
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// HasIssueRef reports whether the message references an issue or PR
// number like "#412".
func HasIssueRef(message string) bool {
	return issueRefPattern.MatchString(message)
}

// FollowsConvention reports whether the summary line matches the
// conventional-commit grammar `type(scope)?!?: description`.
func FollowsConvention(summary string) bool {
	return conventionalPattern.MatchString(summary)
}

// HasBreakingChange reports a conventional "!" marker or an explicit
// BREAKING CHANGE footer.
func HasBreakingChange(message string) bool {
	summary := contract.FirstLine(message)
	if strings.Contains(message, "BREAKING CHANGE") {
		return true
	}
	if i := strings.IndexByte(summary, ':'); i > 0 {
		return strings.HasSuffix(summary[:i], "!")
	}
	return false
}

// IsRevert reports whether the message marks a revert commit.
func IsRevert(message string) bool {
	return revertPattern.MatchString(contract.FirstLine(message))
}

// IsHotfix reports whether the message carries an urgency marker.
func IsHotfix(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "hotfix") || strings.Contains(lower, "urgent")
}

// IsVagueMessage reports whether the summary is a lone vague word.
func IsVagueMessage(summary string) bool {
	word := strings.ToLower(strings.TrimSpace(summary))
	word = strings.TrimSuffix(word, ".")
	_, ok := vagueWords[word]
	return ok
}

// CountWords returns the whitespace-separated word count of a message.
func CountWords(message string) int {
	return len(strings.Fields(message))
}

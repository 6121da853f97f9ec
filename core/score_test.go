package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teampulse/teampulse/schema"
)

// TestScoreMessage validates the rule-based score across message shapes.
func TestScoreMessage(t *testing.T) {
	w := schema.DefaultScoreWeights()

	tests := []struct {
		name        string
		message     string
		parentCount int
		expected    float64
	}{
		{
			name:        "empty message only collects base and not-merge",
			message:     "",
			parentCount: 1,
			expected:    5.5,
		},
		{
			name:        "bare vague word",
			message:     "fix",
			parentCount: 1,
			expected:    4.5,
		},
		{
			name:        "vague word with trailing period",
			message:     "wip.",
			parentCount: 1,
			expected:    4.5,
		},
		{
			name:        "conventional commit with issue ref and body clamps at ten",
			message:     "feat(auth): add OAuth token refresh #412\n\nRefresh tokens before expiry to avoid forced logouts.",
			parentCount: 1,
			expected:    10.0,
		},
		{
			name:        "merge commit loses the not-merge bonus",
			message:     "Merge pull request #101 from org/feature-branch",
			parentCount: 2,
			expected:    8.0,
		},
		{
			name:        "hotfix marker is penalized",
			message:     "hotfix: patch login crash in session layer",
			parentCount: 1,
			expected:    6.0, // base + good length + not-merge - hotfix
		},
		{
			name:        "short summary earns no length bonus",
			message:     "add tests",
			parentCount: 1,
			expected:    5.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreMessage(tt.message, tt.parentCount, w, schema.MinMessageLength, schema.IdealMessageLength)
			assert.InDelta(t, tt.expected, score, 0.001)
		})
	}
}

// TestScoreMessageDeterministic ensures repeated scoring of the same
// input yields identical results.
func TestScoreMessageDeterministic(t *testing.T) {
	w := schema.DefaultScoreWeights()
	msg := "refactor(core): split extraction pipeline into stages #77"

	first := ScoreMessage(msg, 1, w, schema.MinMessageLength, schema.IdealMessageLength)
	for range 10 {
		assert.Equal(t, first, ScoreMessage(msg, 1, w, schema.MinMessageLength, schema.IdealMessageLength))
	}
}

// TestScoreMessageClamping checks both clamp boundaries with extreme weights.
func TestScoreMessageClamping(t *testing.T) {
	t.Run("lower bound", func(t *testing.T) {
		w := schema.ScoreWeights{Base: 0, Vague: 15}
		score := ScoreMessage("wip", 1, w, schema.MinMessageLength, schema.IdealMessageLength)
		assert.Equal(t, 0.0, score)
	})

	t.Run("upper bound", func(t *testing.T) {
		w := schema.ScoreWeights{Base: 5, IssueRef: 20}
		score := ScoreMessage("land the thing #9", 1, w, schema.MinMessageLength, schema.IdealMessageLength)
		assert.Equal(t, 10.0, score)
	})
}

// TestScoreBreakdown checks the per-signal contributions sum to the
// pre-clamp score and include the base term.
func TestScoreBreakdown(t *testing.T) {
	w := schema.DefaultScoreWeights()
	msg := "fix(api): guard against nil repository metadata #23"

	breakdown := ScoreBreakdown(msg, 1, w, schema.MinMessageLength, schema.IdealMessageLength)

	assert.Equal(t, w.Base, breakdown["base"])
	assert.Equal(t, w.IssueRef, breakdown["issue_ref"])
	assert.Equal(t, w.Conventional, breakdown["conventional"])
	assert.Equal(t, w.NotMerge, breakdown["not_merge"])
	assert.Zero(t, breakdown["vague"])
	assert.Zero(t, breakdown["hotfix"])

	var sum float64
	for _, v := range breakdown {
		sum += v
	}
	assert.InDelta(t, ScoreMessage(msg, 1, w, schema.MinMessageLength, schema.IdealMessageLength), clampScore(sum), 0.001)
}

// TestFollowsConvention exercises the conventional-commit grammar.
func TestFollowsConvention(t *testing.T) {
	tests := []struct {
		summary string
		want    bool
	}{
		{"feat: add dashboard rendering", true},
		{"fix(parser): handle fenced JSON", true},
		{"feat(api)!: drop v1 endpoints", true},
		{"chore: bump dependencies", true},
		{"Feat: capitalized type", false},
		{"feat:missing space", false},
		{"random message", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			assert.Equal(t, tt.want, FollowsConvention(tt.summary))
		})
	}
}

// TestHasBreakingChange covers the "!" marker and the footer form.
func TestHasBreakingChange(t *testing.T) {
	assert.True(t, HasBreakingChange("feat(api)!: drop v1 endpoints"))
	assert.True(t, HasBreakingChange("feat: new storage layout\n\nBREAKING CHANGE: reindex required"))
	assert.False(t, HasBreakingChange("feat(api): add v2 endpoints"))
	assert.False(t, HasBreakingChange("important! read this"))
}

// TestFlagHelpers covers the remaining message classifiers.
func TestFlagHelpers(t *testing.T) {
	assert.True(t, HasIssueRef("fix crash #12"))
	assert.False(t, HasIssueRef("fix crash in issue 12"))

	assert.True(t, IsRevert(`Revert "feat: add dashboard"`))
	assert.False(t, IsRevert("feat: revert-safe migrations"))

	assert.True(t, IsHotfix("HOTFIX: rollback bad deploy"))
	assert.True(t, IsHotfix("urgent: restore service"))
	assert.False(t, IsHotfix("fix: steady-state cleanup"))

	assert.True(t, IsVagueMessage("  Update  "))
	assert.False(t, IsVagueMessage("update dependency pins"))

	assert.Equal(t, 4, CountWords("one two\tthree\nfour"))
	assert.Equal(t, 0, CountWords(""))
}

package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetPlainLabel checks the score band boundaries.
func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{10, ExcellentValue},
		{8, ExcellentValue},
		{7.99, GoodValue},
		{6, GoodValue},
		{5.99, FairValue},
		{4, FairValue},
		{3.99, PoorValue},
		{0, PoorValue},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetPlainLabel(tt.score), "score %.2f", tt.score)
	}
}

// TestGetColorLabel verifies the colored label still carries the plain
// text regardless of the active color profile.
func TestGetColorLabel(t *testing.T) {
	assert.Contains(t, GetColorLabel(9), ExcellentValue)
	assert.Contains(t, GetColorLabel(6.5), GoodValue)
	assert.Contains(t, GetColorLabel(5), FairValue)
	assert.Contains(t, GetColorLabel(1), PoorValue)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{name: "short text unchanged", input: "alice", maxWidth: 10, want: "alice"},
		{name: "exact width unchanged", input: "alice", maxWidth: 5, want: "alice"},
		{name: "long text gets ellipsis", input: "alexandra the developer", maxWidth: 10, want: "alexand..."},
		{name: "tiny width leaves text alone", input: "alice", maxWidth: 3, want: "alice"},
		{name: "multibyte runes counted once", input: "日本語のコミット", maxWidth: 6, want: "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateText(tt.input, tt.maxWidth))
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "feat: add thing", FirstLine("feat: add thing"))
	assert.Equal(t, "feat: add thing", FirstLine("feat: add thing\n\nlonger body"))
	assert.Equal(t, "feat: add thing", FirstLine("feat: add thing\r\nbody"), "CRLF summary is trimmed")
	assert.Equal(t, "", FirstLine(""))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "True", "1"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, got, s)
	}
	for _, s := range []string{"no", "NO", "false", "False", "0"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, got, s)
	}

	_, err := ParseBoolString("maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid boolean string")
}

// TestGetTerminalWidth verifies the override wins and the fallback is
// sane when stdout is not a terminal.
func TestGetTerminalWidth(t *testing.T) {
	assert.Equal(t, 80, GetTerminalWidth(80))
	assert.Positive(t, GetTerminalWidth(0))
}

func TestNormalizeIdentity(t *testing.T) {
	assert.Equal(t, "alice smith", NormalizeIdentity("  Alice Smith "))
	assert.Equal(t, "", NormalizeIdentity("   "))
}

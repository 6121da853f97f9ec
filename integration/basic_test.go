//go:build basic

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCommitsCSV = `sha,repository,author,author_name,author_email,date,message,quality_score,quality_label,message_length,message_words,has_issue_ref,follows_convention,has_breaking_change,is_merge,is_revert,is_hotfix,additions,deletions,files_changed,total_changes,parent_count,llm_quality_score,business_impact_score,feature_type,complexity_level,risk_level
aaa111,api,alice smith,Alice Smith,alice@corp.example,2026-02-03T10:00:00Z,feat(api): add pagination #12,9.50,Excellent,29,4,TRUE,TRUE,FALSE,FALSE,FALSE,FALSE,40,12,3,52,1,,,,,
bbb222,web,bob,Bob,bob@corp.example,2026-02-04T11:00:00Z,chore: bump deps,6.50,Good,16,3,FALSE,TRUE,FALSE,FALSE,FALSE,FALSE,2,2,1,4,1,,,,,
`

// TestVersionCommand checks the binary reports its build info.
func TestVersionCommand(t *testing.T) {
	out, err := exec.Command(getTeampulseBinary(), "version").CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "teampulse")
	assert.Contains(t, string(out), "Version:")
}

// TestHelpListsCommands checks the top-level help names every command.
func TestHelpListsCommands(t *testing.T) {
	out, err := exec.Command(getTeampulseBinary(), "--help").CombinedOutput()
	require.NoError(t, err, string(out))
	for _, name := range []string{"extract", "dashboard", "cache", "history", "mcp", "version"} {
		assert.Contains(t, string(out), name)
	}
}

// TestDashboardFromCSV renders a dashboard from a pre-extracted commits
// artifact without touching the network.
func TestDashboardFromCSV(t *testing.T) {
	dir := t.TempDir()
	commitsFile := filepath.Join(dir, "commits.csv")
	dashboardFile := filepath.Join(dir, "dashboard.html")
	require.NoError(t, os.WriteFile(commitsFile, []byte(sampleCommitsCSV), 0o644))

	cmd := exec.Command(getTeampulseBinary(), "dashboard",
		"--commits-file", commitsFile,
		"--dashboard-file", dashboardFile,
		"--history-backend", "none",
		"--cache-backend", "none",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	blob, err := os.ReadFile(dashboardFile)
	require.NoError(t, err)
	content := string(blob)
	assert.True(t, strings.HasPrefix(content, "<!DOCTYPE html>"))
	assert.Contains(t, content, "alice smith")
}

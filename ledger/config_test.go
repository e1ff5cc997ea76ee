package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestConfigWithCurrentMonth(t *testing.T) {
	cfg := testConfig()
	next := cfg.WithCurrentMonth(testMonth.Next())
	assert.Equal(t, testMonth, cfg.CurrentMonth)
	assert.Equal(t, testMonth.Next(), next.CurrentMonth)

	next.BranchResolutions[0].Description = "changed"
	assert.Equal(t, "Kingdom Hall and Assembly Hall Worldwide", cfg.BranchResolutions[0].Description)
}

func TestConfigDefaults(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "jw.org Transfer", cfg.Transfer())
	assert.Equal(t, "North, Springfield, IL", cfg.CongregationDisplayName())
	assert.Equal(t, Expense, NewBranchResolution("x", GlobalAssistanceArrangement, Zero).Category)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, testConfig().Validate())

	cfg := testConfig()
	cfg.BranchResolutions = append(cfg.BranchResolutions,
		NewBranchResolution("Refund", WorldwideWorkResolution, MustParseMoney("(1)")))
	err := cfg.Validate()
	assert.True(t, IsInvariantError(err))
	assert.Contains(t, err.Error(), "branch resolution 3")
}

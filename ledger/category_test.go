package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"W", WorldwideWork},
		{"w", WorldwideWork},
		{"C", LocalCongregationExpenses},
		{"E", Expense},
		{"D", Deposit},
		{"None", Other},
		{" ", Other},
		{"", Other},
		{"EXPENSE", Expense},
		{"LOCAL_CONGREGATION_EXPENSES", LocalCongregationExpenses},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategoryInvalid(t *testing.T) {
	for _, input := range []string{"X", "Wx", "none"} {
		_, err := ParseCategory(input)
		assert.True(t, IsParseError(err), "%q", input)
	}
}

func TestCategorySerialized(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseCategory(c.Serialized())
		assert.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	assert.Equal(t, "None", Other.Serialized())
	assert.Equal(t, byte(' '), Other.Code())
	assert.Equal(t, "W", WorldwideWork.Serialized())
}

func TestCategoryOrder(t *testing.T) {
	assert.True(t, LocalCongregationExpenses < WorldwideWork)
	assert.True(t, WorldwideWork < Expense)
	assert.True(t, Expense < Deposit)
	assert.True(t, Deposit < Other)
}

func TestCategoryMarshalUnknown(t *testing.T) {
	_, err := Category(42).MarshalText()
	assert.True(t, IsInvariantError(err))
}

func TestParseResolutionType(t *testing.T) {
	for _, typ := range ResolutionTypes() {
		parsed, err := ParseResolutionType(string(typ))
		assert.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	_, err := ParseResolutionType("BUILDING_FUND")
	assert.True(t, IsParseError(err))

	_, err = ResolutionType("BUILDING_FUND").MarshalText()
	assert.True(t, IsInvariantError(err))
}

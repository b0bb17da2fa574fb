package topic

import (
	"testing"

	"github.com/bobmcallan/finbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogOf(titles ...string) models.Catalog {
	c := make(models.Catalog, len(titles))
	for i, title := range titles {
		c[i].SetTopic(title)
	}
	return c
}

func TestFindTopic_EmptyCatalog(t *testing.T) {
	assert.Nil(t, FindTopic("what is tax", nil))
	assert.Nil(t, FindTopic("what is tax", models.Catalog{}))
}

func TestFindTopic_TokenOverlap(t *testing.T) {
	c := catalogOf("Inflation", "Tax Saving")
	got := FindTopic("how does tax saving work", c)
	require.NotNil(t, got)
	assert.Equal(t, "Tax Saving", got.Topic)
}

func TestFindTopic_NoMatchWhenAllZero(t *testing.T) {
	c := catalogOf("Inflation", "Tax Saving")
	assert.Nil(t, FindTopic("what is gravity", c))
}

func TestFindTopic_CaseInsensitive(t *testing.T) {
	c := catalogOf("Mutual Fund")
	got := FindTopic("MUTUAL funds?", c)
	require.NotNil(t, got)
	assert.Equal(t, "Mutual Fund", got.Topic)
}

func TestFindTopic_TieKeepsFirst(t *testing.T) {
	c := catalogOf("Tax Planning", "Tax Saving", "Income Tax Slab")
	got := FindTopic("tax question", c)
	require.NotNil(t, got)
	assert.Equal(t, "Tax Planning", got.Topic)
	assert.Same(t, &c[0], got)
}

func TestFindTopic_PhraseBonusDominatesSingleToken(t *testing.T) {
	// "sip" appears verbatim (1 token + 2 bonus); "Mutual Fund Returns" shares one token only
	c := catalogOf("Mutual Fund Returns", "SIP")
	got := FindTopic("what are sip returns", c)
	require.NotNil(t, got)
	assert.Equal(t, "SIP", got.Topic)
}

func TestFindTopic_PhraseBonusWithoutTokenBoundary(t *testing.T) {
	// Substring match counts even when the title is not a whole token
	c := catalogOf("EMI")
	got := FindTopic("how are emis calculated", c)
	require.NotNil(t, got)
	assert.Equal(t, 2, Score("how are emis calculated", "EMI"))
}

func TestFindTopic_SkipsEmptyTitles(t *testing.T) {
	c := models.Catalog{{}, {}}
	c[1].SetTopic("Budget")
	got := FindTopic("monthly budget tips", c)
	require.NotNil(t, got)
	assert.Equal(t, "Budget", got.Topic)

	assert.Nil(t, FindTopic("anything at all", models.Catalog{{}}))
}

func TestFindTopic_DuplicateTokensCollapse(t *testing.T) {
	c := catalogOf("Tax Tax", "Tax Saving")
	// "Tax Tax" scores 1 token plus the phrase bonus; "Tax Saving" scores 2 plus the bonus
	got := FindTopic("tax tax saving", c)
	require.NotNil(t, got)
	assert.Equal(t, "Tax Saving", got.Topic)
}

func TestFindTopic_Deterministic(t *testing.T) {
	c := catalogOf("Credit Score", "Credit Card", "Score Card")
	first := FindTopic("credit score card", c)
	for i := 0; i < 20; i++ {
		assert.Same(t, first, FindTopic("credit score card", c))
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		question string
		title    string
		want     int
	}{
		{"what is inflation", "Inflation", 3},
		{"how does tax saving work", "Tax Saving", 4},
		{"tax", "Tax Saving", 1},
		{"what is gravity", "Inflation", 0},
		{"", "Inflation", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.question, tt.title), "%q vs %q", tt.question, tt.title)
	}
}

// Package topic matches free-text questions against a topic catalog.
package topic

import (
	"strings"

	"github.com/bobmcallan/finbot/internal/models"
)

// PhraseBonus is added when the whole topic title appears in the question.
const PhraseBonus = 2

// tokenSet lower-cases s and splits it on whitespace into a set.
func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Score returns the token overlap between question and title, plus
// PhraseBonus when the lower-cased title is a substring of the question.
func Score(question, title string) int {
	return score(tokenSet(question), strings.ToLower(question), title)
}

func score(questionTokens map[string]struct{}, lowerQuestion, title string) int {
	n := 0
	for tok := range tokenSet(title) {
		if _, ok := questionTokens[tok]; ok {
			n++
		}
	}
	if strings.Contains(lowerQuestion, strings.ToLower(title)) {
		n += PhraseBonus
	}
	return n
}

// FindTopic returns the highest scoring record, or nil when no record scores
// above zero. Records with an empty title are skipped, and ties go to the
// record that appears first in the catalog.
func FindTopic(question string, catalog models.Catalog) *models.TopicRecord {
	if len(catalog) == 0 {
		return nil
	}

	questionTokens := tokenSet(question)
	lowerQuestion := strings.ToLower(question)

	var best *models.TopicRecord
	bestScore := 0
	for i := range catalog {
		title := catalog[i].Topic
		if title == "" {
			continue
		}
		if s := score(questionTokens, lowerQuestion, title); s > bestScore {
			bestScore = s
			best = &catalog[i]
		}
	}
	return best
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicRecord_MixedFAQStartingWithPair(t *testing.T) {
	var rec TopicRecord
	require.NoError(t, json.Unmarshal([]byte(`{"topic": "SIP", "faq": [
		{"question": "Minimum amount?", "answer": "500"},
		"Can I pause it?",
		42
	]}`), &rec))

	faq := rec.FAQFor("en")
	assert.Equal(t, FAQKindPairs, faq.Kind)
	assert.Equal(t, []FAQPair{
		{Question: "Minimum amount?", Answer: "500"},
		{Note: "Can I pause it?"},
		{Note: "42"},
	}, faq.Pairs)
	assert.Equal(t, 3, faq.Len())
}

func TestTopicRecord_PlainFAQKeepsNonStrings(t *testing.T) {
	var rec TopicRecord
	require.NoError(t, json.Unmarshal([]byte(`{"topic": "SIP", "faq": ["One", {"a": 1}]}`), &rec))

	faq := rec.FAQFor("en")
	assert.Equal(t, FAQKindPlain, faq.Kind)
	assert.Equal(t, []string{"One", `{"a":1}`}, faq.Items)
}

func TestTopicRecord_LocalizedFieldsFallBack(t *testing.T) {
	var rec TopicRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"topic": "Mutual Fund",
		"simple_explanation": "Pooled money",
		"simple_explanation_hi": "",
		"normal_explanation_HI": "Sanyukt nivesh",
		"faq_hi": []
	}`), &rec))

	assert.Equal(t, "Pooled money", rec.Explanation(ModeBeginner, "hi"), "empty localized text falls back")
	assert.Equal(t, "Sanyukt nivesh", rec.Explanation(ModeNormal, "hi"))
	assert.Equal(t, "", rec.Explanation(ModeNormal, "en"))
	assert.Equal(t, 0, rec.FAQFor("hi").Len())
	assert.True(t, rec.HasTopicField())
}

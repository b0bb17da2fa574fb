package models

// Answer is the structured result of one question.
type Answer struct {
	Response   string  `json:"response"`
	ModeUsed   Mode    `json:"mode_used"`
	TopicFound *string `json:"topic_found"`
	Language   string  `json:"language,omitempty"`
}

// Matched reports whether a catalog topic was found for the question.
func (a *Answer) Matched() bool {
	return a.TopicFound != nil
}

// Topic returns the matched topic title, or "" when none matched.
func (a *Answer) Topic() string {
	if a.TopicFound == nil {
		return ""
	}
	return *a.TopicFound
}

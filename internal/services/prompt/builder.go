// Package prompt assembles generator prompts and refusal text.
package prompt

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/finbot/internal/models"
)

// Refusal messages returned when no catalog topic matches.
const (
	RefusalEnglish = "I can only help you with the financial topics in my database."
	RefusalHindi   = "Maaf karein, main keval database mein upalabdh vitteey vishayon par madad kar sakta hoon."
)

// Mode-specific directives placed in the INSTRUCTIONS section.
const (
	InstructionBeginner = "Explain simply. Imagine explaining to a 10-year-old."
	InstructionNormal   = "Explain normally. Professional but accessible."
	InstructionGrounded = "Answer based ONLY on the provided context if possible."
)

const faqHeader = "Common Questions:"

// promptTemplate takes the context block, the question and the directive.
// The space after "INSTRUCTIONS:" is part of the format.
const promptTemplate = "\nCONTEXT:\n%s\n\n" +
	"USER QUESTION:\n%s\n\n" +
	"INSTRUCTIONS: \n%s\n" +
	InstructionGrounded + "\n"

// Refusal returns the no-match message for language.
func Refusal(language string) string {
	if language == models.LanguageHindi {
		return RefusalHindi
	}
	return RefusalEnglish
}

// Instruction returns the directive for mode.
func Instruction(mode models.Mode) string {
	if mode == models.ModeBeginner {
		return InstructionBeginner
	}
	return InstructionNormal
}

// RenderFAQ formats pairs as "Q: .. A: .." lines and plain entries, including
// loose entries inside a pairs list, as "- .." lines.
func RenderFAQ(faq models.FAQ) string {
	lines := make([]string, 0, faq.Len())
	if faq.Kind == models.FAQKindPairs {
		for _, p := range faq.Pairs {
			if p.Note != "" {
				lines = append(lines, "- "+p.Note)
				continue
			}
			lines = append(lines, fmt.Sprintf("Q: %s A: %s", p.Question, p.Answer))
		}
	} else {
		for _, item := range faq.Items {
			lines = append(lines, "- "+item)
		}
	}
	return strings.Join(lines, "\n")
}

// Context builds the explanation and FAQ block for a topic.
func Context(topic *models.TopicRecord, mode models.Mode, language string) string {
	var sb strings.Builder
	sb.WriteString(topic.Explanation(mode, language))
	sb.WriteString("\n\n")
	sb.WriteString(faqHeader)
	sb.WriteString("\n")
	sb.WriteString(RenderFAQ(topic.FAQFor(language)))
	return sb.String()
}

// Build returns the full prompt for question about topic.
func Build(question string, topic *models.TopicRecord, mode models.Mode, language string) string {
	return fmt.Sprintf(promptTemplate, Context(topic, mode, language), question, Instruction(mode))
}

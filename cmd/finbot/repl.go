package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bobmcallan/finbot/internal/interfaces"
	"github.com/bobmcallan/finbot/internal/models"
)

// REPL reads questions and commands line by line and prints answers.
type REPL struct {
	answers         interfaces.AnswerService
	personalization interfaces.PersonalizationService
	userID          string
	language        string
}

// NewREPL creates a REPL for userID starting in language.
func NewREPL(answers interfaces.AnswerService, personalization interfaces.PersonalizationService, userID, language string) *REPL {
	if language == "" {
		language = models.LanguageEnglish
	}
	return &REPL{
		answers:         answers,
		personalization: personalization,
		userID:          userID,
		language:        language,
	}
}

// RunWithIO reads lines from r until EOF or quit/exit and writes output to w.
func (p *REPL) RunWithIO(r io.Reader, w io.Writer) error {
	ctx := context.Background()

	fmt.Fprintln(w, "--- Finbot Financial Topics Assistant ---")
	fmt.Fprintln(w, "Type 'quit' to exit.")
	fmt.Fprintln(w, "Commands: 'struggle' (Beginner Mode), 'confident' (Normal Mode), 'hindi' (Switch to Hindi), 'english' (Switch to English)")
	fmt.Fprintln(w, strings.Repeat("-", 50))

	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		case "struggle":
			p.feedback(ctx, w, "switch_beginner", "Mode switched to Beginner due to user struggle.")
			continue
		case "confident":
			p.feedback(ctx, w, "switch_normal", "Mode switched to Normal.")
			continue
		case "hindi":
			p.language = models.LanguageHindi
			fmt.Fprintln(w, "[System] Language switched to Hindi.")
			continue
		case "english":
			p.language = models.LanguageEnglish
			fmt.Fprintln(w, "[System] Language switched to English.")
			continue
		}

		result := p.answers.Answer(ctx, p.userID, line, p.language)
		fmt.Fprintf(w, "Bot (%s mode, %s):\n", result.ModeUsed, p.language)
		fmt.Fprintln(w, result.Response)
		if result.Matched() {
			fmt.Fprintf(w, "\n[Debug] Topic: %s\n", result.Topic())
		}
	}

	return scanner.Err()
}

func (p *REPL) feedback(ctx context.Context, w io.Writer, raw, message string) {
	if _, err := p.personalization.RecordFeedback(ctx, p.userID, models.ParseSignal(raw)); err != nil {
		fmt.Fprintf(w, "[System] Failed to record feedback: %v\n", err)
		return
	}
	fmt.Fprintf(w, "[System] %s\n", message)
}

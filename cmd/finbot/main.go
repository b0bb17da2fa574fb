// Command finbot is an interactive terminal for the financial topics assistant.
package main

import (
	"fmt"
	"os"

	"github.com/bobmcallan/finbot/internal/app"
)

// defaultREPLUser is the profile used when FINBOT_USER is unset.
const defaultREPLUser = "current_user"

func main() {
	a, err := app.NewApp(os.Getenv("FINBOT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	userID := os.Getenv("FINBOT_USER")
	if userID == "" {
		userID = defaultREPLUser
	}

	repl := NewREPL(a.AnswerService, a.PersonalizationService, userID, a.Catalogs.DefaultLanguage())
	if err := repl.RunWithIO(os.Stdin, os.Stdout); err != nil {
		a.Logger.Error().Err(err).Msg("REPL failed")
		a.Close()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/andy/invoicebook/internal/app"
	"github.com/andy/invoicebook/internal/cli"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before os.Exit
func run() int {
	// Optional .env with INVOICEBOOK_* overrides
	_ = godotenv.Load()

	// If the user asked for help, avoid initializing the full app (which may prompt)
	skipInit := false
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" {
			skipInit = true
			break
		}
	}

	if !skipInit {
		ctx := context.Background()
		a, err := app.New(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			return 1
		}
		defer a.Close()

		for _, notice := range a.Notices {
			fmt.Fprintln(os.Stderr, notice)
		}
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorMessage(err))
		return 1
	}
	return 0
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mikey/email-triage/internal/adapters/cli"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags, os.Stdout)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	var result *core.Classification
	err = container.Invoke(func(logger *zap.Logger, triage *cli.CliTriage, llm core.LLMHandle) error {
		defer logger.Sync()
		defer llm.Close()

		var runErr error
		result, runErr = triage.Run(context.Background(), cli.Input{
			File:  flags.InputFile,
			Text:  flags.Text,
			Stdin: os.Stdin,
		})
		return runErr
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Sentinel categories signal that no classification was made
	if core.IsErrorCategory(result.Category) {
		os.Exit(3)
	}
}

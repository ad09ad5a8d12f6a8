package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"architectai/internal/config"
	"architectai/internal/designer"
)

// designCommand runs one generation cycle from the terminal: the
// requirement comes from arguments or stdin, the document goes to
// stdout.
func designCommand() *Command {
	cmd := &Command{
		Name:    "design",
		Summary: "Generate a design document for a requirement",
		Usage: []string{
			"architectai design [--config <path>] <requirement>",
			"architectai design [--config <path>] -   (read requirement from stdin)",
		},
	}
	cmd.Run = func(args []string, stdout, stderr io.Writer) int {
		flags := flag.NewFlagSet("design", flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "path to service config file")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		requirement, err := readRequirement(flags.Args(), os.Stdin)
		if err != nil {
			fmt.Fprintf(stderr, "read requirement: %v\n", err)
			return ExitError
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "config error: %v\n", err)
			return ExitError
		}

		logger := slog.New(slog.NewTextHandler(stderr, nil))
		generator := designer.NewService(cfg, logger)

		ctx := context.Background()
		if timeout := cfg.Server.RequestTimeout(); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		fmt.Fprintln(stdout, generator.GenerateDesignDocument(ctx, requirement))
		return ExitOK
	}
	return cmd
}

// readRequirement joins the positional arguments, or reads stdin when
// the sole argument is "-".
func readRequirement(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

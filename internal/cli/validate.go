package cli

import (
	"flag"
	"fmt"
	"io"

	"architectai/internal/config"
)

// validateCommand checks the effective configuration and reports what
// the daemon would run with.
func validateCommand() *Command {
	cmd := &Command{
		Name:    "validate",
		Summary: "Validate the service configuration",
		Usage: []string{
			"architectai validate [--config <path>]",
		},
	}
	cmd.Run = func(args []string, stdout, stderr io.Writer) int {
		flags := flag.NewFlagSet("validate", flag.ContinueOnError)
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

		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "config error: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "listen addr:  %s\n", cfg.Server.ListenAddr)
		fmt.Fprintf(stdout, "agent name:   %s\n", cfg.Platform.AgentName)
		fmt.Fprintf(stdout, "model:        %s\n", cfg.Platform.Model)
		if cfg.Platform.Endpoint == "" {
			fmt.Fprintln(stdout, "endpoint:     (not configured; generation will answer with a remediation message)")
		} else {
			fmt.Fprintf(stdout, "endpoint:     %s\n", cfg.Platform.Endpoint)
		}
		if cfg.Platform.ClientID != "" {
			fmt.Fprintln(stdout, "identity:     user-assigned managed identity")
		} else {
			fmt.Fprintln(stdout, "identity:     ambient credential chain")
		}
		return ExitOK
	}
	return cmd
}

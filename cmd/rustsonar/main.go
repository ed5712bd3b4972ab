// Command rustsonar is a length-prefixed stdio analyzer for Rust source,
// reporting highlighting, size/complexity metrics, CPD tokens, and rule
// issues to whatever process drives it over the protocol in
// internal/protocol.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/rustsonar/internal/config"
	"github.com/standardbeagle/rustsonar/internal/debug"
	"github.com/standardbeagle/rustsonar/internal/protocol"
	"github.com/standardbeagle/rustsonar/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "rustsonar",
		Usage:                  "static analysis of Rust source over a framed stdio protocol",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a .rustsonar.kdl rule-parameter override file",
				Value: config.ConfigFileName,
			},
			&cli.StringSliceFlag{
				Name:  "rule-param",
				Usage: "override a rule parameter, e.g. --rule-param S3776:threshold=20",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "enable structured debug logging to stderr",
			},
			&cli.StringFlag{
				Name:  "debug-log",
				Usage: "write debug logging to a file instead of stderr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		debug.SetEnabled(true)
	}
	if logPath := c.String("debug-log"); logPath != "" {
		if err := debug.InitLogFile(logPath); err != nil {
			return err
		}
		defer debug.Close()
	}

	overrides, err := parseRuleParamFlags(c.StringSlice("rule-param"))
	if err != nil {
		return err
	}

	parameters, err := config.RuleParameters(c.String("config"), overrides)
	if err != nil {
		return err
	}

	return protocol.Serve(os.Stdin, os.Stdout, os.Stderr, parameters)
}

// parseRuleParamFlags parses "key=value" flags into a parameter map.
func parseRuleParamFlags(flags []string) (map[string]string, error) {
	overrides := make(map[string]string, len(flags))
	for _, flag := range flags {
		key, value, ok := strings.Cut(flag, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --rule-param %q: expected key=value", flag)
		}
		overrides[key] = value
	}
	return overrides, nil
}

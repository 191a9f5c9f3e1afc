// salesinsight cleans a retail sales ledger and reports on it.
//
// Usage:
//
//	salesinsight clean  --input ledger.csv --output cleaned.csv
//	salesinsight report --input ledger.csv --output-dir reports --format csv --format xlsx
//	salesinsight serve  --port 8080
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"salesinsight/internal/config"
	"salesinsight/pkg/contracts"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      config.AppName,
		Usage:     "Clean a retail sales ledger and report on it",
		Version:   contracts.GetVersionInfo().String(),
		Writer:    out,
		ErrWriter: errOut,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{config.EnvPrefix + "_CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},

		Commands: []*cli.Command{
			cleanCommand(),
			reportCommand(),
			serveCommand(),
		},
	}
}

package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"github.com/xyproto/env/v2"
)

func main() {
	app := &cli.App{
		Name:  "rvhart",
		Usage: "Inspect and exercise the privileged-instruction catalogue on an emulated hart.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log.level",
				Usage: "Log level: trace, debug, info, warn, error",
				Value: env.Str("RVHART_LOG_LEVEL", "info"),
			},
		},
		Commands: []*cli.Command{
			CatalogCommand,
			TraceCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		l := Logger(os.Stderr, levelFromString("info"))
		l.Error("command failed", "err", err)
		os.Exit(1)
	}
}

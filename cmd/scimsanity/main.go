// Command scimsanity validates SCIM 2.0 payloads against RFC 7643 and
// probes live SCIM servers for RFC 7644 conformance.
//
// Usage:
//
//	scimsanity <file>              validate a SCIM resource file
//	scimsanity --patch <file>      validate a SCIM PATCH operation file
//	scimsanity --stdin             read JSON from stdin
//	scimsanity probe <url>         probe a SCIM server for conformance
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:                 "scimsanity",
		Usage:                "validate SCIM 2.0 payloads and probe server conformance (RFC 7643/7644)",
		HideVersion:          true,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "patch", Usage: "validate as a PATCH operation"},
			&cli.BoolFlag{Name: "stdin", Usage: "read JSON from stdin"},
		},
		Commands: []*cli.Command{
			probeCommand(),
		},
		// The root action only runs when the first positional argument isn't
		// a registered subcommand name, which is exactly the "validate a
		// file" path — cli/v2 already separates c.Args() from subcommand
		// lookup, so no Click-style argument rewriting is needed here.
		Action: func(c *cli.Context) error {
			patch := c.Bool("patch")

			if c.Bool("stdin") {
				os.Exit(validateAndReport(os.Stdout, os.Stdin, patch))
				return nil
			}

			file := c.Args().First()
			if file == "" {
				_ = cli.ShowAppHelp(c)
				os.Exit(1)
				return nil
			}

			os.Exit(validateFile(os.Stdout, file, patch))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

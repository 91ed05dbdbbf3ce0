package main

import (
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/thomaselliottbetz/scim-sanity/pkg/probe"
)

// probeArgs mirrors the teacher's cmd/args option-group convention: a plain
// struct whose fields are the CLI's destination variables, with a Flags
// method building the cli.Flag slice that populates them.
type probeArgs struct {
	Token             string
	Username          string
	Password          string
	TLSNoVerify       bool
	CABundle          string
	Proxy             string
	SkipCleanup       bool
	JSONOutput        bool
	Resource          string
	Strict            bool
	Timeout           int
	AcceptSideEffects bool
}

func (a *probeArgs) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "token", Usage: "bearer token for authentication", Destination: &a.Token},
		&cli.StringFlag{Name: "username", Usage: "username for basic auth", Destination: &a.Username},
		&cli.StringFlag{Name: "password", Usage: "password for basic auth", Destination: &a.Password},
		&cli.BoolFlag{Name: "tls-no-verify", Usage: "skip TLS certificate verification", Destination: &a.TLSNoVerify},
		&cli.StringFlag{Name: "ca-bundle", Usage: "path to a custom CA certificate bundle", Destination: &a.CABundle},
		&cli.StringFlag{Name: "proxy", Usage: "HTTP/HTTPS proxy URL", Destination: &a.Proxy},
		&cli.BoolFlag{Name: "skip-cleanup", Usage: "leave test resources on the server", Destination: &a.SkipCleanup},
		&cli.BoolFlag{Name: "json-output", Usage: "output results as JSON", Destination: &a.JSONOutput},
		&cli.StringFlag{Name: "resource", Usage: "test a specific resource type (User, Group, Agent, AgenticApplication)", Destination: &a.Resource},
		&cli.BoolFlag{Name: "strict", Usage: "strict validation mode", Value: true, Destination: &a.Strict},
		&cli.BoolFlag{Name: "compat", Usage: "compat validation mode (overrides --strict)"},
		&cli.IntFlag{Name: "timeout", Usage: "per-request timeout in seconds", Value: 30, Destination: &a.Timeout},
		&cli.BoolFlag{Name: "i-accept-side-effects", Usage: "acknowledge that probe creates/deletes resources on the target server", Destination: &a.AcceptSideEffects},
	}
}

// probeCommand builds the `probe <url> [options]` subcommand.
func probeCommand() *cli.Command {
	args := &probeArgs{}
	return &cli.Command{
		Name:        "probe",
		Usage:       "probe a live SCIM server for RFC 7643/7644 conformance",
		ArgsUsage:   "<url>",
		Flags:       args.Flags(),
		Description: "Runs a CRUD lifecycle test sequence against the server at URL: discovery, User/Group/Agent/AgenticApplication operations, search, and error handling.\n\nWARNING: this command creates, modifies, and deletes real resources on the target server. You must pass --i-accept-side-effects to proceed.",
		Action: func(c *cli.Context) error {
			url := c.Args().First()
			if url == "" {
				return cli.Exit("probe requires a server URL", 1)
			}

			strict := args.Strict
			if c.Bool("compat") {
				strict = false
			}

			code := probe.Run(os.Stdout, isTTYWriter(os.Stdout), probe.Options{
				BaseURL:           url,
				Token:             args.Token,
				Username:          args.Username,
				Password:          args.Password,
				TLSNoVerify:       args.TLSNoVerify,
				SkipCleanup:       args.SkipCleanup,
				JSONOutput:        args.JSONOutput,
				ResourceFilter:    args.Resource,
				Strict:            strict,
				AcceptSideEffects: args.AcceptSideEffects,
				Timeout:           time.Duration(args.Timeout) * time.Second,
				RapidAgentCount:   probe.MaxRapidAgents,
				Proxy:             args.Proxy,
				CABundle:          args.CABundle,
				Timestamp:         time.Now().UTC().Format(time.RFC3339),
			})
			os.Exit(code)
			return nil
		},
	}
}

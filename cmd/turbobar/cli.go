package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/config"
	"github.com/hpungsan/turbobar/internal/errors"
	"github.com/hpungsan/turbobar/internal/ops"
	"github.com/hpungsan/turbobar/internal/web"
)

// maxStdinBytes caps piped capture bodies and results.
const maxStdinBytes = 1 << 20

// newCLIApp creates the CLI application with all commands. baseDir is where
// "config init" writes.
func newCLIApp(env *ops.Env, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "turbobar",
		Usage:   "Quick capture into Notion, organized by Gemini",
		Version: Version,
		Commands: []*cli.Command{
			organizeCmd(env),
			captureCmd(env),
			historyCmd(env),
			showCmd(env),
			schemaCmd(env),
			serveCmd(env),
			configCmd(env, baseDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// draftFlags are shared by organize and capture.
func draftFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(capture.ModeTask), Usage: "Capture mode: task|brainDump|inbox"},
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Capture title"},
		&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Capture body (read from stdin when piped)"},
		&cli.StringFlag{Name: "tags", Usage: "Comma-separated note tags"},
		&cli.BoolFlag{Name: "now", Usage: "Mark the task as NOW (default: default_task_now)"},
		&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "Task priority label (default: default_task_priority)"},
		&cli.StringFlag{Name: "due", Value: string(capture.DueNone), Usage: "Due preset: none|today|tomorrow"},
	}
}

// draftFromFlags builds a draft from flags, stdin and config defaults.
func draftFromFlags(c *cli.Context, cfg *config.Config) (capture.Draft, error) {
	draft := capture.Draft{
		Mode:         capture.Mode(c.String("mode")),
		Title:        c.String("title"),
		Body:         c.String("body"),
		Tags:         parseTags(c.String("tags")),
		TaskNow:      c.Bool("now"),
		TaskPriority: c.String("priority"),
		DuePreset:    capture.DuePreset(c.String("due")),
		Assignments:  capture.DefaultAssignments(),
	}
	if cfg != nil {
		if !c.IsSet("priority") {
			draft.TaskPriority = cfg.DefaultTaskPriority
		}
		if !c.IsSet("now") {
			draft.TaskNow = cfg.DefaultTaskNow
		}
	}

	if !c.IsSet("body") && stdinHasData() {
		body, err := readStdin(maxStdinBytes)
		if err != nil {
			return capture.Draft{}, errors.NewInvalidRequest(err.Error())
		}
		draft.Body = body
	}
	return draft, nil
}

// organizeCmd creates the organize command.
func organizeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "organize",
		Usage: "Classify a capture with Gemini and print the result without writing it",
		Flags: draftFlags(),
		Action: func(c *cli.Context) error {
			draft, err := draftFromFlags(c, env.Config)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Organize(c.Context, env, ops.OrganizeInput{Draft: draft})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output.Result)
		},
	}
}

// captureCmd creates the capture command.
func captureCmd(env *ops.Env) *cli.Command {
	flags := append(draftFlags(),
		&cli.BoolFlag{Name: "organize", Usage: "Classify before writing (default: auto_organize; --organize=false skips)"},
		&cli.BoolFlag{Name: "result", Usage: "Read an organized result as JSON from stdin and write it as is"},
		&cli.StringFlag{Name: "collection", Aliases: []string{"c"}, Usage: "Target collection id or URL"},
	)

	return &cli.Command{
		Name:  "capture",
		Usage: "Write a capture into its Notion collection",
		Flags: flags,
		Action: func(c *cli.Context) error {
			input := ops.CaptureInput{CollectionID: c.String("collection")}

			if c.Bool("result") {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("result JSON must be piped via stdin"))
				}
				raw, err := readStdin(maxStdinBytes)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				var result capture.Result
				if err := json.Unmarshal([]byte(raw), &result); err != nil {
					return outputError(errors.NewInvalidRequest("result is not valid JSON: " + err.Error()))
				}
				input.Result = &result
			} else {
				draft, err := draftFromFlags(c, env.Config)
				if err != nil {
					return outputError(err)
				}
				input.Draft = draft
			}

			if c.IsSet("organize") {
				organize := c.Bool("organize")
				input.Organize = &organize
			}

			output, err := ops.Capture(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List journaled captures, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Filter by mode"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListCaptures(env, ops.ListInput{
				Mode:   c.String("mode"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one journaled capture",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-body", Usage: "Exclude the body from output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{ID: c.Args().First()}
			if c.Bool("no-body") {
				includeBody := false
				input.IncludeBody = &includeBody
			}

			output, err := ops.FetchCapture(env, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// schemaCmd creates the schema command.
func schemaCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "schema",
		Usage:     "Show a collection's properties and where assignments would be written",
		ArgsUsage: "[collection id or URL]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(capture.ModeTask), Usage: "Mode whose collection and property map apply"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.CollectionSchema(c.Context, env, ops.SchemaInput{
				CollectionID: c.Args().First(),
				Mode:         c.String("mode"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default: server_bind)"},
			&cli.IntFlag{Name: "port", Usage: "Port (default: server_port)"},
		},
		Action: func(c *cli.Context) error {
			bind := env.Config.ServerBind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := env.Config.ServerPort
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv := web.NewServer(env, Version, bind, port)
			if err := web.Run(c.Context, srv, env.Logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// configCmd creates the config command.
func configCmd(env *ops.Env, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or initialize configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration with secrets redacted",
				Action: func(c *cli.Context) error {
					return outputJSON(env.Config.Redacted())
				},
			},
			{
				Name:  "init",
				Usage: "Write a default config.json if none exists",
				Action: func(c *cli.Context) error {
					for _, name := range []string{config.JSONFileName, config.YAMLFileName} {
						path := filepath.Join(baseDir, name)
						if _, err := os.Stat(path); err == nil {
							return outputError(errors.NewInvalidRequest("config already exists: " + path))
						}
					}
					if err := config.Save(baseDir, config.DefaultConfig()); err != nil {
						return outputError(errors.NewInternal(err))
					}
					return outputJSON(map[string]string{"path": filepath.Join(baseDir, config.JSONFileName)})
				},
			},
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if tErr, ok := errors.As(err); ok {
		if tErr.Code == errors.ErrInternal {
			return cli.Exit(fmt.Sprintf("[%s] %s: %v", tErr.Code, tErr.Message, tErr.Details["internal_error"]), 1)
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", tErr.Code, tErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

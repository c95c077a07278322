package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"gitlab.com/tozd/go/errors"

	"github.com/agentflare-ai/go-apidox/internal/apidox"
	"github.com/agentflare-ai/go-apidox/internal/config"
	"github.com/agentflare-ai/go-apidox/internal/jsdoc"
	"github.com/agentflare-ai/go-apidox/internal/logging"
	"github.com/agentflare-ai/go-apidox/internal/tree"
	"github.com/agentflare-ai/go-apidox/internal/watch"
)

// stdinName picks the grammar for source read from stdin.
const stdinName = "stdin.js"

type cliApp struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	noColor    bool
	flags      config.Config
}

func run(argv []string, stdout, stderr io.Writer) error {
	return runContext(context.Background(), argv, os.Stdin, stdout, stderr)
}

func runContext(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(normalizeLegacyArgs(argv))
	return cmd.ExecuteContext(ctx)
}

// execute runs one conversion. changed reports whether a flag was set on
// the command line; those flags override the config file.
func (app *cliApp) execute(ctx context.Context, changed func(string) bool, usage func() string) error {
	cfg, err := app.loadConfig(changed)
	if err != nil {
		return err
	}
	var mode config.Mode
	err = cfg.Validate()
	if err == nil {
		mode, err = cfg.Mode()
	}
	if errors.Is(err, config.ErrNoTarget) {
		io.WriteString(app.stderr, usage())
	}
	if err != nil {
		return err
	}

	log := logging.New(app.stderr, logging.Options{Verbose: cfg.Verbose, NoColor: app.noColor})

	if mode == config.ModeTree {
		_, err := tree.Convert(ctx, cfg.Root, cfg.Target, tree.Options{
			IgnoreFile:            cfg.IgnoreFile,
			Concurrency:           cfg.Concurrency,
			OmitSourceLink:        cfg.NoSourceLink,
			FullSourceDescription: cfg.FullSourceDescription,
			Logger:                log,
		})
		return err
	}

	if err := app.convertFile(ctx, cfg, log); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}
	return watch.Run(ctx, cfg.Input, watch.Options{Logger: log}, func(ctx context.Context) error {
		return app.convertFile(ctx, cfg, log)
	})
}

func (app *cliApp) loadConfig(changed func(string) bool) (config.Config, error) {
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return cfg, err
	}
	f := app.flags
	override := func(name string, apply func()) {
		if changed(name) {
			apply()
		}
	}
	override("input", func() { cfg.Input = f.Input })
	override("output", func() { cfg.Output = f.Output })
	override("input-title", func() { cfg.InputTitle = f.InputTitle })
	override("no-source-link", func() { cfg.NoSourceLink = f.NoSourceLink })
	override("full-source-description", func() { cfg.FullSourceDescription = f.FullSourceDescription })
	override("root", func() { cfg.Root = f.Root })
	override("target", func() { cfg.Target = f.Target })
	override("ignore-file", func() { cfg.IgnoreFile = f.IgnoreFile })
	override("concurrency", func() { cfg.Concurrency = f.Concurrency })
	override("watch", func() { cfg.Watch = f.Watch })
	override("verbose", func() { cfg.Verbose = f.Verbose })
	return cfg, nil
}

func (app *cliApp) convertFile(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	name := cfg.Input
	var src []byte
	var err error
	if cfg.Input == config.Stdio {
		name = stdinName
		src, err = io.ReadAll(app.stdin)
	} else {
		src, err = os.ReadFile(cfg.Input)
	}
	if err != nil {
		return errors.Errorf("reading input: %w", err)
	}

	lang, err := jsdoc.LanguageFor(name)
	if err != nil {
		return err
	}
	records, err := jsdoc.Extract(ctx, src, lang)
	if err != nil {
		return err
	}
	doc := apidox.Render(records, cfg.Options())
	if err := writeOutput(cfg.Output, app.stdout, []byte(doc.Markdown)); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	log.Info("converted",
		"input", cfg.Input,
		"output", cfg.Output,
		"symbols", len(doc.Symbols),
		"size", humanize.Bytes(uint64(len(doc.Markdown))),
	)
	return nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == config.Stdio {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var legacyLongFlagSet = map[string]struct{}{
	"input":                   {},
	"output":                  {},
	"input-title":             {},
	"no-source-link":          {},
	"full-source-description": {},
	"root":                    {},
	"target":                  {},
	"ignore-file":             {},
	"concurrency":             {},
	"config":                  {},
	"watch":                   {},
	"verbose":                 {},
	"version":                 {},
	"no-color":                {},
}

// normalizeLegacyArgs rewrites single-dash long flags such as -input to
// their double-dash form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	modified := false
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || len(arg) <= 2 {
			converted = append(converted, arg)
			continue
		}
		name, value, hasValue := strings.Cut(arg[1:], "=")
		if _, ok := legacyLongFlagSet[name]; ok {
			if hasValue {
				converted = append(converted, "--"+name+"="+value)
			} else {
				converted = append(converted, "--"+name)
			}
			modified = true
			continue
		}
		converted = append(converted, arg)
	}
	if !modified {
		return args
	}
	return converted
}

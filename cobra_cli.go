package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
	"gitlab.com/tozd/go/errors"

	"github.com/agentflare-ai/go-apidox/internal/config"
)

const rootLongDesc = `
apidox turns the /** ... */ documentation comments of a JavaScript or TypeScript file into a
Markdown API document: a table of contents, one section per public symbol with its parameters,
return value, throws and see-also entries, and links between symbols that mention each other.

Convert a single file with --input and --output, or a whole tree with --root and --target.
Settings can also come from a .apidox.yml file; flags given on the command line win.
`

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	app := &cliApp{stdin: stdin, stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "apidox [flags]",
		Short:         "Render JavaScript API documentation comments as Markdown",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringVarP(&app.flags.Input, "input", "i", "", "source file to read (- for stdin)")
	flags.StringVarP(&app.flags.Output, "output", "o", "", "Markdown file to write (- for stdout)")
	flags.StringVar(&app.flags.InputTitle, "input-title", "", "text of the source link (default: the input path)")
	flags.BoolVar(&app.flags.NoSourceLink, "no-source-link", false, "omit the source link below the file summary")
	flags.BoolVar(&app.flags.FullSourceDescription, "full-source-description", false, "use the whole file comment, not just its summary")
	flags.StringVar(&app.flags.Root, "root", "", "directory to convert recursively")
	flags.StringVar(&app.flags.Target, "target", "", "directory that receives the converted tree")
	flags.StringVar(&app.flags.IgnoreFile, "ignore-file", "", "ignore file for --root (default: .npmignore, then .gitignore)")
	flags.IntVar(&app.flags.Concurrency, "concurrency", 0, "files converted at once with --root (default: one per CPU)")
	flags.BoolVarP(&app.flags.Watch, "watch", "w", false, "regenerate --output whenever --input changes")
	flags.BoolVarP(&app.flags.Verbose, "verbose", "v", false, "log debug details to stderr")
	flags.StringVar(&app.configPath, "config", "", "config file (default: "+config.DefaultFile+" when present)")
	flags.BoolVar(&app.noColor, "no-color", false, "disable coloured log output")
	_ = cmd.MarkFlagFilename("input", "js", "mjs", "cjs", "jsx", "ts", "mts", "cts", "tsx")
	_ = cmd.MarkFlagFilename("config", "yml", "yaml")
	_ = cmd.MarkFlagDirname("root")
	_ = cmd.MarkFlagDirname("target")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return app.execute(ctx, cmd.Flags().Changed, cmd.UsageString)
	}

	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

// completionWriters maps a shell name to its cobra script generator.
var completionWriters = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: strings.TrimSpace(`
Print a completion script for apidox. Flag values such as --input and
--root complete to JavaScript and TypeScript paths.

  source <(apidox completion bash)
`),
		Args:                  cobra.ExactValidArgs(1),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := completionWriters[args[0]]
			if !ok {
				return errors.Errorf("unsupported shell %q", args[0])
			}
			return gen(root, cmd.OutOrStdout())
		},
	}
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	var man bool
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write one page per apidox command into directory, as Markdown or, with
--man, as section 1 man pages.

  apidox gen-docs ./docs/cli
  apidox gen-docs --man ./man
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.WithStack(err)
			}
			if man {
				return cobradoc.GenManTree(root, &cobradoc.GenManHeader{Title: "APIDOX", Section: "1"}, dir)
			}
			return cobradoc.GenMarkdownTree(root, dir)
		},
	}
	cmd.Flags().BoolVar(&man, "man", false, "write man pages instead of Markdown")
	return cmd
}

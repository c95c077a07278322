// # apidox
//
// `apidox` converts the `/** ... */` documentation comments of a JavaScript or
// TypeScript file into a Markdown API reference that reads well on GitHub.
// Comments are located with tree-sitter, so any file the grammars accept can
// be documented without running it.
//
// Key capabilities:
//
//   - a table of contents with one entry per public symbol, plus anchors for
//     every object path such as `Klass.prototype` that groups them.
//   - one section per symbol: heading with signature, summary, description,
//     parameters, return value, throws and see-also entries.
//   - mentions of other documented symbols become links; text inside inline
//     code or fenced blocks is left alone.
//   - 4-space indented description blocks become `js` code fences and lines
//     ending in a colon become bold labels.
//   - symbols marked `@api private` and module-local `var`/`let`/`const`
//     declarations are skipped.
//   - whole directory trees via `--root`/`--target`, honouring `.npmignore` or
//     `.gitignore`, with an index `README.md`.
//   - `--watch` regenerates the output every time the input changes.
//
// ## Usage
//
//	apidox --input lib/widget.js --output docs/widget.md
//
// Examples:
//
//   - Print the document for stdin to stdout:
//
//     cat lib/widget.js | apidox -i - -o -
//
//   - Convert a package tree into a docs folder:
//
//     apidox --root lib --target docs
//
//   - Keep a document current while editing:
//
//     apidox -i lib/widget.js -o docs/widget.md --watch
//
// ## Supported Flags
//
//   - `--input`, `-i`: source file, `-` for stdin.
//   - `--output`, `-o`: Markdown file, `-` for stdout.
//   - `--input-title`: text of the source link (default: the input path).
//   - `--no-source-link`: omit the `_Source: ..._` line.
//   - `--full-source-description`: use the whole file comment instead of its
//     first paragraph.
//   - `--root`, `--target`: convert every `.js`, `.mjs`, `.cjs`, `.jsx`, `.ts`
//     and `.tsx` file below root into target.
//   - `--ignore-file`: ignore file for `--root`, relative to root.
//   - `--concurrency`: files converted at once in directory mode.
//   - `--config`: YAML config file (default: `.apidox.yml` when present).
//   - `--watch`, `-w`: regenerate on change.
//   - `--verbose`, `-v`: debug logging on stderr.
//   - `--no-color`: plain log output even on a terminal.
//
// Single-dash long flags such as `-input` are accepted as well.
//
// ## Config File
//
// Every flag has a snake_case key in `.apidox.yml`:
//
//	root: lib
//	target: docs
//	ignore_file: .gitignore
//	concurrency: 4
//
// Flags set on the command line take precedence over the file.
//
// ## Shell Completion
//
//	apidox completion bash        # bash
//	apidox completion zsh         # zsh
//	apidox completion fish | source
//	apidox completion powershell | Out-String | Invoke-Expression
//
// ## CLI Docs
//
//	apidox gen-docs ./docs/cli
//	apidox gen-docs --man ./man
//
// Every command becomes its own Markdown file, or man page with `--man`,
// under the provided directory.
package main

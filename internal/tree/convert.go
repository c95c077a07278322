package tree

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/agentflare-ai/go-apidox/internal/apidox"
	"github.com/agentflare-ai/go-apidox/internal/jsdoc"
)

// IndexFile is the name of the index written to the target directory.
const IndexFile = "README.md"

// Options configures a tree conversion.
type Options struct {
	IgnoreFile string
	// Concurrency bounds the number of files converted at once. Zero means
	// one per CPU.
	Concurrency           int
	OmitSourceLink        bool
	FullSourceDescription bool
	Logger                *slog.Logger
}

// Result describes one converted file.
type Result struct {
	// Source is the input path relative to the root, slash separated.
	Source string
	// Output is the written document path.
	Output  string
	Summary string
	Symbols int
	Bytes   int
}

// Convert converts every file Discover finds below root into target,
// mirroring the directory layout with a .md extension, then writes the
// index. Each file is an independent conversion.
func Convert(ctx context.Context, root, target string, opts Options) ([]Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	files, err := Discover(root, opts.IgnoreFile, target)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no source files found in %s", root)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, f := range files {
		g.Go(func() error {
			res, err := convertFile(ctx, root, target, f, opts)
			if err != nil {
				return err
			}
			log.Debug("converted", "source", res.Source, "symbols", res.Symbols, "size", humanize.Bytes(uint64(res.Bytes)))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := WriteIndex(target, results); err != nil {
		return nil, err
	}
	log.Info("converted tree", "root", root, "target", target, "files", len(results))
	return results, nil
}

func convertFile(ctx context.Context, root, target string, f File, opts Options) (Result, error) {
	input := filepath.Join(root, filepath.FromSlash(f.Path))
	src, err := os.ReadFile(input)
	if err != nil {
		return Result{}, errors.Errorf("reading %s: %w", input, err)
	}
	records, err := jsdoc.Extract(ctx, src, f.Language)
	if err != nil {
		return Result{}, errors.Errorf("extracting %s: %w", input, err)
	}
	output := filepath.Join(target, filepath.FromSlash(OutputPath(f.Path)))
	doc := apidox.Render(records, apidox.Options{
		Input:                 input,
		Output:                output,
		InputTitle:            f.Path,
		OmitSourceLink:        opts.OmitSourceLink,
		FullSourceDescription: opts.FullSourceDescription,
	})
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Result{}, errors.WithStack(err)
	}
	if err := os.WriteFile(output, []byte(doc.Markdown), 0o644); err != nil {
		return Result{}, errors.Errorf("writing %s: %w", output, err)
	}
	return Result{
		Source:  f.Path,
		Output:  output,
		Summary: doc.Summary,
		Symbols: len(doc.Symbols),
		Bytes:   len(doc.Markdown),
	}, nil
}

// OutputPath maps a slash separated source path to its document path.
func OutputPath(source string) string {
	return strings.TrimSuffix(source, path.Ext(source)) + ".md"
}

// WriteIndex writes the index listing every result to target. When a
// converted document already occupies the index path, the listing is
// appended to it.
func WriteIndex(target string, results []Result) error {
	index := buildIndex(results)
	if len(index) == 0 {
		return nil
	}
	indexPath := filepath.Join(target, IndexFile)
	content := index
	for _, r := range results {
		if filepath.Clean(r.Output) != filepath.Clean(indexPath) {
			continue
		}
		existing, err := os.ReadFile(indexPath)
		if err != nil {
			return errors.WithStack(err)
		}
		content = appendIndexAfterDoc(existing, index)
		break
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(indexPath, content, 0o644); err != nil {
		return errors.Errorf("writing index: %w", err)
	}
	return nil
}

func buildIndex(results []Result) []byte {
	if len(results) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.WriteString("## Files\n\n")
	for _, r := range results {
		link := OutputPath(r.Source)
		if summary := strings.Join(strings.Fields(r.Summary), " "); summary != "" {
			fmt.Fprintf(&buf, "- [%s](%s) - %s\n", r.Source, link, summary)
		} else {
			fmt.Fprintf(&buf, "- [%s](%s)\n", r.Source, link)
		}
	}
	return buf.Bytes()
}

func appendIndexAfterDoc(doc, index []byte) []byte {
	if len(doc) == 0 {
		return append([]byte{}, index...)
	}
	content := append([]byte{}, doc...)
	if !bytes.HasSuffix(content, []byte("\n\n")) {
		if bytes.HasSuffix(content, []byte("\n")) {
			content = append(content, '\n')
		} else {
			content = append(content, '\n', '\n')
		}
	}
	return append(content, index...)
}

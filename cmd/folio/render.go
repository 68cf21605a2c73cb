package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	folio "github.com/alnah/go-folio"
)

const outputPermissions = 0o644

// runRender renders one document to an HTML fragment: the outline (when the
// document has headings) followed by the body.
func runRender(ctx context.Context, args []string, flags *renderFlags, env *Environment) error {
	if len(args) == 0 {
		printRenderUsage(env.Stderr)
		return fmt.Errorf("%w: input file required", ErrNoInput)
	}

	input := args[0]
	data, err := os.ReadFile(input) // #nosec G304 -- input path is user-provided
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrReadInput, input, err)
	}

	var nodes []folio.Node
	switch strings.ToLower(filepath.Ext(input)) {
	case ".md", ".markdown":
		nodes, err = folio.FromMarkdown(data)
	default:
		nodes, err = folio.DecodeDocument(data)
	}
	if err != nil {
		return err
	}

	opts := []folio.Option{folio.WithLogger(newLogger(flags.common, env))}
	if flags.theme != "" {
		opts = append(opts, folio.WithTheme(flags.theme))
	}
	if flags.threshold > 0 {
		opts = append(opts, folio.WithLineNumberThreshold(flags.threshold))
	}

	doc, err := folio.NewRenderer(opts...).Render(ctx, nodes)
	if err != nil {
		return err
	}

	out := doc.TOC + doc.Body
	if flags.output == "" {
		fmt.Fprintln(env.Stdout, out)
		return nil
	}
	if err := os.WriteFile(flags.output, []byte(out), outputPermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, flags.output, err)
	}
	return nil
}

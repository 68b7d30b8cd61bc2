// Package inline runs a single search without the TUI and prints the results for scripts.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/query"
	"github.com/thrombe/kolekk/searcher"
)

// Run searches options.Spec for options.Query and writes what it found to options.Out.
func Run(ctx context.Context, deps *searcher.Deps, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	session, err := searcher.OpenKind(deps, options.Spec)
	if err != nil {
		return err
	}

	if _, err = session.SetQuery(ctx, options.Query); err != nil {
		return fmt.Errorf("search %s: %w", options.Spec.Kind, err)
	}

	for page := 1; session.HasNextPage() && (options.Pages <= 0 || page < options.Pages); page++ {
		if _, err = session.NextPage(ctx); err != nil {
			return fmt.Errorf("search %s, page %d: %w", options.Spec.Kind, page+1, err)
		}
	}

	entries := session.Results()
	log.Infof("inline search of %s for %q found %d entries", options.Spec.Kind, options.Query, len(entries))

	if len(entries) > 0 {
		if err := query.Remember(string(options.Spec.Kind), options.Query, 1); err != nil {
			log.Warn(err)
		}
	}

	entries = pick(entries, options)

	if options.Json {
		return writeJson(options.Out, &Output{
			Query:   options.Query,
			Kind:    options.Spec.Kind,
			Binding: options.Spec.Binding,
			HasNext: session.HasNextPage(),
			Result:  entries,
		})
	}

	return writeText(options.Out, entries)
}

func pick(entries []searcher.Entry, options *Options) []searcher.Entry {
	if filter, ok := options.Filter.Get(); ok {
		entries = filter(entries)
	}

	picker, ok := options.Picker.Get()
	if !ok {
		return entries
	}

	if e, ok := picker(entries).Get(); ok {
		return []searcher.Entry{e}
	}
	return nil
}

func writeText(out io.Writer, entries []searcher.Entry) error {
	for _, e := range entries {
		line := e.Title
		if e.URL != "" {
			line += "\t" + e.URL
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

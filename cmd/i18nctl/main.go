// Command i18nctl maintains the translation catalog: it joins scope fragments
// into complete per-language trees, splits them back, fingerprints the
// catalog and publishes fragments to object storage.
//
// Usage:
//
//	i18nctl join  -dir src/assets/i18n -lang ru,en [-file ru.json -file en.json]
//	i18nctl split -dir src/assets/i18n -lang ru -file ru.json
//	i18nctl split -dir src/assets/i18n -lang ru,en -string '[{...},{...}]'
//	i18nctl hash  -dir src/assets/i18n -lang ru,en
//	i18nctl push  -dir src/assets/i18n -lang ru,en [-prefix i18n] [-cache-control "public, max-age=300"]
//
// push reads the S3_* variables (see pkg/storage.Config) from the environment
// or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrymomot/lingua/pkg/catalog"
	"github.com/dmitrymomot/lingua/pkg/config"
	"github.com/dmitrymomot/lingua/pkg/i18n"
	"github.com/dmitrymomot/lingua/pkg/storage"
)

var errUsage = errors.New("usage: i18nctl join|split|hash|push [flags]")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// listFlag collects repeated and comma-separated flag values.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

type options struct {
	dir          string
	input        string
	prefix       string
	cacheControl string
	langs        listFlag
	files        listFlag
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd := args[0]

	var opts options
	fs := flag.NewFlagSet("i18nctl "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.dir, "dir", "i18n", "directory with i18n JSON files")
	fs.Var(&opts.langs, "lang", "working languages (repeatable or comma-separated)")

	switch cmd {
	case "join":
		fs.Var(&opts.files, "file", "destination file per language (default: print to stdout)")
	case "split":
		fs.Var(&opts.files, "file", "source file per language")
		fs.StringVar(&opts.input, "string", "", "input JSON; an array when several languages are given")
	case "push":
		fs.StringVar(&opts.prefix, "prefix", "", "object key prefix (default: S3_PREFIX)")
		fs.StringVar(&opts.cacheControl, "cache-control", "", "Cache-Control header for uploaded fragments")
	case "hash":
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if len(opts.langs) == 0 {
		return errors.New("at least one -lang is required")
	}
	if len(opts.files) > 0 && len(opts.files) != len(opts.langs) {
		return errors.New("-file should be given once per -lang")
	}

	switch cmd {
	case "join":
		return join(opts, stdout)
	case "split":
		return split(opts)
	case "hash":
		sum, err := catalog.Hash(opts.dir, opts.langs)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, sum)
		return err
	default:
		return push(ctx, opts, stdout)
	}
}

func join(opts options, stdout io.Writer) error {
	trees := make([]i18n.Tree, len(opts.langs))
	for i, lang := range opts.langs {
		tree, err := catalog.Join(opts.dir, lang)
		if err != nil {
			return err
		}
		trees[i] = tree

		if len(opts.files) > 0 {
			if err := catalog.WriteFile(opts.files[i], tree); err != nil {
				return err
			}
		}
	}
	if len(opts.files) > 0 {
		return nil
	}

	var out any = trees
	if len(trees) == 1 {
		out = trees[0]
	}
	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func split(opts options) error {
	var trees []i18n.Tree

	switch {
	case opts.input != "" && len(opts.files) > 0:
		return errors.New("-file and -string are mutually exclusive")
	case opts.input != "":
		var err error
		if trees, err = decodeInput(opts.input); err != nil {
			return err
		}
	case len(opts.files) > 0:
		for _, name := range opts.files {
			data, err := os.ReadFile(name)
			if err != nil {
				return err
			}
			tree, err := catalog.Decode(data, name)
			if err != nil {
				return err
			}
			trees = append(trees, tree)
		}
	default:
		return errors.New("one of -file or -string is required")
	}

	if len(trees) != len(opts.langs) {
		return errors.New("input should match -lang")
	}
	for i, lang := range opts.langs {
		if err := catalog.Split(opts.dir, lang, trees[i]); err != nil {
			return err
		}
	}
	return nil
}

// decodeInput accepts a single JSON object or an array of objects.
func decodeInput(s string) ([]i18n.Tree, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var trees []i18n.Tree
		if err := json.Unmarshal([]byte(s), &trees); err != nil {
			return nil, fmt.Errorf("%w: -string: %v", catalog.ErrInvalidFile, err)
		}
		return trees, nil
	}
	tree, err := catalog.Decode([]byte(s), "-string")
	if err != nil {
		return nil, err
	}
	return []i18n.Tree{tree}, nil
}

func push(ctx context.Context, opts options, stdout io.Writer) error {
	var cfg storage.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	store, err := storage.New(cfg)
	if err != nil {
		return err
	}

	prefix := opts.prefix
	if prefix == "" {
		prefix = store.Prefix()
	}

	keys, err := catalog.Push(ctx, opts.dir, opts.langs, store, catalog.PushOptions{
		Prefix:       prefix,
		CacheControl: opts.cacheControl,
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := fmt.Fprintln(stdout, key); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

// cliRedirector stands in for the login page: it tells the user to sign in again.
type cliRedirector struct {
	w io.Writer
}

func (r cliRedirector) RedirectToLogin(context.Context) {
	_ = writeln(r.w, "run `portal login` to sign in")
}

// cliNotifier prints user-facing notices to stderr.
type cliNotifier struct {
	w io.Writer
}

func (n cliNotifier) Notify(_ context.Context, level ports.NoticeLevel, message string) {
	_ = writef(n.w, "[%s] %s\n", level, message)
}

type outputOptions struct {
	Query string
}

// newFlagSet returns a flag set that reports errors instead of exiting,
// with the shared --query flag registered.
func newFlagSet(cmdCtx *commandContext, name string) (*flag.FlagSet, *outputOptions) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cmdCtx.Err)
	opts := &outputOptions{}
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the JSON output")
	return fs, opts
}

// printResult writes v as indented JSON after applying the --query projection.
func printResult(cmdCtx *commandContext, opts *outputOptions, v any) error {
	if opts != nil && opts.Query != "" {
		projected, err := cmdCtx.Portal.Query.Apply(opts.Query, v)
		if err != nil {
			return err
		}
		v = projected
	}
	if s, ok := v.(string); ok {
		return writeln(cmdCtx.Out, s)
	}
	enc := json.NewEncoder(cmdCtx.Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

type subcommand func(cmdCtx *commandContext, args []string) error

// dispatch runs the subcommand named by args[0].
func dispatch(cmdCtx *commandContext, group string, subs map[string]subcommand, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: portal %s <%s>", group, subNames(subs))
	}
	sub, ok := subs[args[0]]
	if !ok {
		return fmt.Errorf("unknown %s subcommand %q (want %s)", group, args[0], subNames(subs))
	}
	return sub(cmdCtx, args[1:])
}

func subNames(subs map[string]subcommand) string {
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

var errMissingID = errors.New("an id argument is required")

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parseIDArg parses the first positional argument of fs as an id.
func parseIDArg(fs *flag.FlagSet) (int64, error) {
	if fs.NArg() == 0 {
		return 0, errMissingID
	}
	return parseID(fs.Arg(0))
}

func requireLogin(cmdCtx *commandContext) error {
	if !cmdCtx.Portal.Sessions.IsAuthenticated() {
		return errors.New("not signed in; run `portal login` first")
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/zdaf-zdaf/group-platform/config"
	"github.com/zdaf-zdaf/group-platform/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Portal *bootstrap.Portal

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	logger := bootstrap.InitLogger(config.LogConfig{Level: "info", Format: "text"}, os.Stderr)

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger = bootstrap.InitLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := runCommand(ctx, cmd, &commandContext{
		Logger: logger,
		Config: cfg,
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}, os.Args[2:])
	stop()
	if runErr != nil {
		if writeErr := writef(os.Stderr, "%s: %s\n", cmdName, runErr); writeErr != nil {
			logger.Error("print command error failed", "error", writeErr)
		}
		logger.Debug("command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

// runCommand builds the portal for cmdCtx and runs cmd against it.
func runCommand(ctx context.Context, cmd command, cmdCtx *commandContext, args []string) error {
	cmdCtx.Ctx = ctx
	if cmdCtx.Portal == nil {
		portal, err := bootstrap.NewPortal(ctx, bootstrap.PortalDeps{
			Config:     &cmdCtx.Config,
			Logger:     cmdCtx.Logger,
			Redirector: cliRedirector{w: cmdCtx.Err},
			Notifier:   cliNotifier{w: cmdCtx.Err},
		})
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := portal.Close(); closeErr != nil {
				cmdCtx.Logger.Warn("portal close failed", "error", closeErr)
			}
		}()
		cmdCtx.Portal = portal
	}
	return cmd.run(cmdCtx, args)
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in; -remember keeps the session across shells",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Sign out and forget any stored session",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the signed-in user (-remote asks the backend)",
			run:         runWhoami,
		},
		"register": {
			name:        "register",
			description: "Create a student or teacher account",
			run:         runRegister,
		},
		"profile": {
			name:        "profile",
			description: "Update student id or faculty",
			run:         runProfile,
		},
		"notices": {
			name:        "notices",
			description: "Announcements: list|get|create|update|delete|unread|read|read-all",
			run:         runNotices,
		},
		"materials": {
			name:        "materials",
			description: "Learning materials: list|upload|update|delete|download",
			run:         runMaterials,
		},
		"sets": {
			name:        "sets",
			description: "Experiment question sets: list|get|create|update|delete",
			run:         runSets,
		},
		"submissions": {
			name:        "submissions",
			description: "List graded experiment submissions",
			run:         runSubmissions,
		},
		"forum": {
			name:        "forum",
			description: "Discussion forum: list|ask|delete|like|sticky|comment|delete-comment",
			run:         runForum,
		},
		"progress": {
			name:        "progress",
			description: "Locally saved experiment answers: show|save|clear|code",
			run:         runProgress,
		},
		"dashboard": {
			name:        "dashboard",
			description: "Summary of unread notices, experiments and submissions",
			run:         runDashboard,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: portal <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	all := commands()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, all[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

// ABOUTME: CLI entry point for fedibot: loads settings, logs in and runs the poll loop
// ABOUTME: Stops cleanly on SIGINT/SIGTERM once in-flight commands finish

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/mauromedda/fedibot-go/internal/bot"
	"github.com/mauromedda/fedibot-go/internal/config"
	"github.com/mauromedda/fedibot-go/internal/fediverse"
	botlog "github.com/mauromedda/fedibot-go/internal/log"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("fedibot %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run loads settings, builds the bot and blocks until a stop signal.
func run(args cliArgs) error {
	settings, err := config.Load(args.config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := botlog.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	if args.verbose {
		level = botlog.LevelDebug
	}
	botlog.SetLevel(level)

	if settings.AccessToken == "" {
		token, err := promptToken()
		if err != nil {
			return err
		}
		settings.AccessToken = token
	}

	ctx, stop := notifyOnce(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userAgent := settings.UserAgent
	if userAgent == "" {
		userAgent = "fedibot/" + version
	}
	client := fediverse.NewClient(settings.InstanceURL, fediverse.Options{
		AccessToken:       settings.AccessToken,
		UserAgent:         userAgent,
		RequestsPerSecond: settings.RequestsPerSecond,
	})

	b, err := bot.New(ctx, client, bot.Options{
		About:               strings.TrimSpace(settings.About),
		PollInterval:        settings.PollInterval,
		MaxBackoff:          settings.MaxBackoff,
		DispatchConcurrency: settings.DispatchConcurrency,
		MaxPostChars:        settings.MaxPostChars,
	})
	if err != nil {
		return fmt.Errorf("logging in to %s: %w", settings.InstanceURL, err)
	}

	registerCommands(b)
	unsubscribe := b.Events().Subscribe(logEvent)
	defer unsubscribe()

	context.AfterFunc(ctx, func() {
		botlog.Info("stopping after in-flight commands; signal again to quit now")
	})
	b.Run(ctx)
	botlog.Info("stopped")
	return nil
}

// promptToken reads the access token from the terminal without echo.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no access token: set access_token or " + config.AccessTokenEnv)
	}

	fmt.Fprint(os.Stderr, "Access token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading access token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errors.New("no access token given")
	}
	return token, nil
}

func logEvent(ev bot.Event) {
	switch ev.Kind {
	case bot.EventState:
		botlog.Debug("poll: %s", ev.State)
	case bot.EventInvoked:
		botlog.Debug("notification %s: ran %s %q", ev.NotificationID, ev.Command, ev.Args)
	case bot.EventParseError:
		botlog.Debug("notification %s: %v", ev.NotificationID, ev.Err)
	case bot.EventIgnored:
		if ev.Command != "" {
			botlog.Debug("notification %s: no command named %q", ev.NotificationID, ev.Command)
		}
	}
}

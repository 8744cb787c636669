// lineui is an interactive terminal prompt with history recall and choice prompts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"lineui/config"
	"lineui/journal"
	"lineui/keys"
	"lineui/readline"
	"lineui/render"
)

func main() {
	initConfig := false

	for _, arg := range os.Args[1:] {
		switch arg {
		case "--init-config":
			initConfig = true
		case "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "error: unknown argument %q\n", arg)
			os.Exit(2)
		}
	}

	// Generate default config and exit
	if initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lineui - Terminal Line Editor

Usage: lineui [options]

Options:
  --init-config     Output default config (redirect to ~/.config/lineui/config.toml)
  -h, --help        Show this help

Keys:
  left/right        Move the cursor
  up/down           Recall history (from an empty line) or move the choice
  return            Commit the line or confirm the choice
  escape            Dismiss the choice prompt
  ctrl+c, ctrl+d    Quit

Lines:
  choose            Open the choice prompt (see [selection] trigger)
  exit              Quit

Configuration:
  Config file: ~/.config/lineui/config.toml
  Generate with: lineui --init-config > ~/.config/lineui/config.toml`)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	interactive := render.IsTerminal(os.Stdin)

	// Set up terminal
	var sink render.Sink
	if interactive {
		term, err := render.NewTerminal(os.Stdin)
		if err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
		if err := term.EnterRawMode(); err != nil {
			return err
		}
		defer term.Restore(os.Stdout)
		sink = render.NewANSI(os.Stdout)
	}

	dec := keys.NewDecoder()
	ed, err := readline.New(readline.Config{
		Prompt:        cfg.Prompt.Text,
		Input:         dec,
		Output:        sink,
		Options:       cfg.Selection.Options,
		HighWaterMark: cfg.Queue.HighWaterMark,
	})
	if err != nil {
		return err
	}

	// Without a terminal nothing is rendered, so results go straight to stdout
	echo := func(s string) {
		if interactive {
			ed.Write([]byte(s + readline.EOL))
			return
		}
		fmt.Println(s)
	}

	var (
		errMu     sync.Mutex
		recordErr error
	)
	noteErr := func(err error) {
		errMu.Lock()
		if recordErr == nil {
			recordErr = err
		}
		errMu.Unlock()
	}

	if cfg.Journal.Enabled {
		store, err := openJournal(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ed.OnLine(func(line string) {
			if line == "" {
				return
			}
			if err := store.RecordLine(line); err != nil {
				noteErr(err)
			}
		})
		ed.OnSelection(func(sel readline.Selection) {
			if err := store.RecordSelection(sel.Choice, sel.Cancelled); err != nil {
				noteErr(err)
			}
		})
	}

	ed.OnSelection(func(sel readline.Selection) {
		if !sel.Cancelled {
			echo("Selected: " + sel.Choice)
		}
		ed.Prompt()
	})

	// Handle termination signals; interrupts arrive as ctrl+c keys in raw mode
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		ed.Close()
	}()

	// Feed stdin to the decoder until it ends
	go func() {
		io.Copy(dec, os.Stdin)
		dec.Flush()
		ed.Close()
	}()

	ed.Prompt()
	if err := consume(context.Background(), ed, cfg.Selection.Trigger, echo); err != nil {
		return err
	}

	if interactive {
		os.Stdout.WriteString(readline.EOL)
	}
	if err := ed.Err(); err != nil {
		return err
	}
	errMu.Lock()
	defer errMu.Unlock()
	if recordErr != nil {
		return fmt.Errorf("journal: %w", recordErr)
	}
	return nil
}

// consume handles committed lines until the session closes.
func consume(ctx context.Context, ed *readline.Editor, trigger string, echo func(string)) error {
	for {
		line, err := ed.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case "exit":
			ed.Close()
			continue
		case trigger:
			if err := ed.SetSelectionMode(true); err != nil {
				echo("No options configured")
				ed.Prompt()
				continue
			}
			ed.PromptOptions()
			continue
		}

		echo("You typed: " + line)
		ed.Prompt()
	}
}

func openJournal(cfg *config.Config) (*journal.Store, error) {
	path, err := cfg.JournalPath()
	if err != nil {
		return nil, fmt.Errorf("determining journal path: %w", err)
	}
	store, err := journal.Open(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

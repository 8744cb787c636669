// Command journal prints what lineui recorded in its commit journal.
// Without flags it lists sessions; -session prints one session's entries.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"lineui/config"
	"lineui/journal"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "Journal database path (default from config)")
		session = flag.String("session", "", "Print entries of this session (prefix accepted)")
		list    = flag.Bool("list", false, "List sessions")
	)
	flag.Parse()

	path := *dbPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if path, err = cfg.JournalPath(); err != nil {
			log.Fatalf("Failed to determine journal path: %v", err)
		}
	}

	store, err := journal.OpenExisting(path)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer store.Close()

	sessions, err := store.Sessions()
	if err != nil {
		log.Fatalf("Failed to list sessions: %v", err)
	}

	if *list || *session == "" {
		showSessions(sessions)
		return
	}

	id, ok := matchSession(sessions, *session)
	if !ok {
		log.Fatalf("No single session matches %q", *session)
	}
	if err := showEntries(store, id); err != nil {
		log.Fatalf("Failed to read entries: %v", err)
	}
}

func showSessions(sessions []journal.Session) {
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded")
		return
	}
	fmt.Printf("Sessions:\n")
	for _, s := range sessions {
		fmt.Printf("  %s  %s  %4d entries\n", s.ID, s.Started.Format("2006-01-02 15:04:05"), s.Entries)
	}
}

// matchSession resolves a full id or a unique prefix.
func matchSession(sessions []journal.Session, prefix string) (string, bool) {
	match := ""
	for _, s := range sessions {
		if s.ID == prefix {
			return s.ID, true
		}
		if strings.HasPrefix(s.ID, prefix) {
			if match != "" {
				return "", false
			}
			match = s.ID
		}
	}
	return match, match != ""
}

func showEntries(store *journal.Store, session string) error {
	entries, err := store.Entries(session)
	if err != nil {
		return err
	}
	fmt.Printf("Session %s:\n", session)
	for _, e := range entries {
		text := e.Text
		if e.Kind == journal.KindCancelled {
			text = "(no option selected)"
		}
		fmt.Printf("  %s  %-9s %s\n", e.Created.Format("15:04:05"), e.Kind, text)
	}
	return nil
}

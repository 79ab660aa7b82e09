package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/config"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/db"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/logger"
)

const dbFileName = ".kinkonnect.db"

var (
	dbPath     string
	configPath string
	logLevel   string

	// set by PersistentPreRunE before any command runs
	appConfig *config.Config
	appLog    *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "kinkonnect",
	Short:         "Family tree relationship engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		appConfig = cfg
		appLog = logger.New(cfg.Log.Level, os.Stderr)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to "+dbFileName+" database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// DiscoverDB finds the database path using priority:
// env > flag > config > walk-up > XDG fallback
func DiscoverDB() (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("KINKONNECT_DB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
		return "", fmt.Errorf("database not found at --db path: %s", dbPath)
	}

	// 3. Config file
	if appConfig != nil && appConfig.Database.Path != "" {
		if _, err := os.Stat(appConfig.Database.Path); err == nil {
			return appConfig.Database.Path, nil
		}
		return "", fmt.Errorf("database not found at configured path: %s", appConfig.Database.Path)
	}

	// 4. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, dbFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 5. XDG fallback
	if xdg := xdgPath(); xdg != "" {
		if _, err := os.Stat(xdg); err == nil {
			return xdg, nil
		}
	}

	return "", fmt.Errorf("no %s found (set KINKONNECT_DB, use --db, or run from a directory containing %s)", dbFileName, dbFileName)
}

func xdgPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "kinkonnect", "kinkonnect.db")
}

// OpenDatabase discovers and opens an existing database
func OpenDatabase() (*db.DB, error) {
	path, err := DiscoverDB()
	if err != nil {
		return nil, err
	}
	return openAt(path)
}

// OpenOrCreateDatabase opens the discovered database, or creates one at
// the first explicitly named location (env, flag, config), else in the
// working directory.
func OpenOrCreateDatabase() (*db.DB, error) {
	if path, err := DiscoverDB(); err == nil {
		return openAt(path)
	}
	path := dbFileName
	switch {
	case os.Getenv("KINKONNECT_DB") != "":
		path = os.Getenv("KINKONNECT_DB")
	case dbPath != "":
		path = dbPath
	case appConfig != nil && appConfig.Database.Path != "":
		path = appConfig.Database.Path
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	appLog.Info("Creating database", "path", path)
	return openAt(path)
}

func openAt(path string) (*db.DB, error) {
	d, err := db.OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := d.EnsureSchema(); err != nil {
		d.Close()
		return nil, err
	}
	appLog.Debug("Opened database", "path", path)
	return d, nil
}

// loadGraph builds a fresh snapshot of every stored person.
func loadGraph(d *db.DB) (*graph.Graph, error) {
	g, err := graph.FromStore(d)
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	appLog.Debug("Built graph", "persons", g.Len())
	return g, nil
}

// ResolvePerson finds a person by full ID, ID prefix, or name search.
func ResolvePerson(d *db.DB, reference string) (*db.Person, error) {
	// 1. Exact ID match
	p, err := d.GetPerson(reference)
	if err == nil {
		return p, nil
	}

	// 2. ID prefix match (>=4 chars)
	if len(reference) >= 4 && !strings.ContainsAny(reference, " \t") {
		matches, err := d.SearchByIDPrefix(reference, 10)
		if err == nil {
			switch len(matches) {
			case 1:
				return &matches[0], nil
			case 0:
				// fall through to name search
			default:
				return nil, ambiguous(reference, matches, "Use a full person ID instead.")
			}
		}
	}

	// 3. Name search
	found, err := d.SearchPersons(reference)
	if err == nil {
		switch len(found) {
		case 1:
			return &found[0], nil
		case 0:
			// fall through to not found
		default:
			return nil, ambiguous(reference, found, "Use a person ID instead.")
		}
	}

	return nil, &graph.NotFoundError{ID: reference}
}

func ambiguous(reference string, matches []db.Person, hint string) error {
	limit := min(len(matches), 10)
	lines := make([]string, limit)
	for i := 0; i < limit; i++ {
		lines[i] = fmt.Sprintf("  %s %s", truncID(matches[i].ID), matches[i].DisplayName)
	}
	return fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\n%s",
		reference, len(matches), strings.Join(lines, "\n"), hint)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncTitle(s string, width int) string {
	if len(s) <= width {
		return s
	}
	// Find a safe UTF-8 boundary
	truncated := s[:width]
	for len(truncated) > 0 && truncated[len(truncated)-1]>>6 == 2 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "..."
}

// nameOf returns the display name for id, or id itself.
func nameOf(g *graph.Graph, id string) string {
	if p, ok := g.Person(id); ok && p.DisplayName != "" {
		return p.DisplayName
	}
	return id
}

func validatorConfig() graph.ValidatorConfig {
	return graph.ValidatorConfig{CheckSexRoles: appConfig.Validation.CheckSexRoles}
}

var errValidationFailed = errors.New("validation failed")

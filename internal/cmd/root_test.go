package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/insightful/insightful/internal/storage"
)

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "2026-01-01T10:00:00Z")

	expected := "1.2.3 (built 2026-01-01T10:00:00Z)"
	if rootCmd.Version != expected {
		t.Errorf("Expected version %s, got %s", expected, rootCmd.Version)
	}
}

func TestRootCmdStructure(t *testing.T) {
	if rootCmd.Use != "insightful" {
		t.Errorf("Unexpected use: %s", rootCmd.Use)
	}

	subcommands := []string{"serve", "capture", "search", "recent", "show", "delete", "clear"}
	for _, name := range subcommands {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}

	persistentFlags := []string{"config", "database", "server", "log-level", "log-file"}
	for _, name := range persistentFlags {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag %q to be defined", name)
		}
	}
}

func TestInitConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
database_path: "/tmp/somewhere.db"
user_agent: "TestAgent/1.0"
recent_limit: 10
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfgFile = configFile
	defer func() { cfgFile = "" }()

	initConfig()

	if viper.ConfigFileUsed() != configFile {
		t.Errorf("Expected config file %s, got %s", configFile, viper.ConfigFileUsed())
	}
	if got := viper.GetInt("recent_limit"); got != 10 {
		t.Errorf("Expected recent_limit 10 from config file, got %d", got)
	}
}

// TestCaptureFlow runs capture and the query subcommands end to end against
// a temporary database and a local page server.
func TestCaptureFlow(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Agents Guide</title></head>
<body><article><p>Building effective agents with workflow patterns.</p></article></body></html>`))
	}))
	defer pageServer.Close()

	dbPath := filepath.Join(t.TempDir(), "cli_test.db")

	run := func(args ...string) error {
		rootCmd.SetArgs(append(args, "--database", dbPath, "--log-level", "error"))
		return rootCmd.Execute()
	}

	if err := run("capture", pageServer.URL); err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	// Verify the record through the store directly.
	store := storage.NewSQLiteStore(dbPath)
	if err := store.Open(); err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	saved := store.GetContentByURL(ctx, pageServer.URL)
	if saved == nil {
		t.Fatal("Expected captured record in store")
	}
	if saved.Title != "Agents Guide" {
		t.Errorf("Unexpected title: %q", saved.Title)
	}
	_ = store.Close()

	// Re-capturing the same URL must not create a second record.
	if err := run("capture", pageServer.URL); err != nil {
		t.Fatalf("second capture failed: %v", err)
	}

	if err := run("recent"); err != nil {
		t.Errorf("recent failed: %v", err)
	}
	if err := run("search", "agents", "workflow"); err != nil {
		t.Errorf("search failed: %v", err)
	}
	if err := run("show", pageServer.URL); err != nil {
		t.Errorf("show failed: %v", err)
	}
	if err := run("clear", "--yes"); err != nil {
		t.Errorf("clear failed: %v", err)
	}

	if err := store.Open(); err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Records != 0 {
		t.Errorf("Expected empty store after clear, got %d records", stats.Records)
	}
}

func TestCaptureFailsWithoutContent(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><script>nothing()</script></body></html>`))
	}))
	defer pageServer.Close()

	dbPath := filepath.Join(t.TempDir(), "nocontent_test.db")

	rootCmd.SetArgs([]string{"capture", pageServer.URL, "--database", dbPath, "--log-level", "error"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected capture to fail for a page with no readable content")
	}
}

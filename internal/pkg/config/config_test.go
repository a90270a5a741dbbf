package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/spf13/viper"
)

func TestUsesDefaultSecret(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	if !UsesDefaultSecret() {
		t.Fatalf("expected the built-in secret to be reported")
	}

	viper.Set(constants.ViperSecretKey, "a-real-secret")
	if UsesDefaultSecret() {
		t.Fatalf("expected a configured secret not to be reported")
	}
}

func TestInit_ReadsFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "planner.yaml")
	body := "auth:\n  secret: from-file\nstore:\n  driver: sqlite3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if UsesDefaultSecret() {
		t.Fatalf("expected secret from file")
	}
	if got := viper.GetString(constants.ViperStoreDriverKey); got != constants.StoreDriverSQLite {
		t.Fatalf("expected sqlite3 driver, got %q", got)
	}
	if got := viper.GetString(constants.ViperServerAddrKey); got != ":8080" {
		t.Fatalf("expected default addr, got %q", got)
	}
}

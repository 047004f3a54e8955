package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fakeKeyJSON = `{"type":"service_account","project_id":"test"}`

func TestResolveServiceAccount_LiteralPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(path, []byte(fakeKeyJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveServiceAccount(path)
	if err != nil {
		t.Fatalf("ResolveServiceAccount: %v", err)
	}
	if string(got) != fakeKeyJSON {
		t.Errorf("got %q, want %q", got, fakeKeyJSON)
	}
}

func TestResolveServiceAccount_RelativeToWorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sa.json"), []byte(fakeKeyJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	got, err := ResolveServiceAccount("sa.json")
	if err != nil {
		t.Fatalf("ResolveServiceAccount: %v", err)
	}
	if string(got) != fakeKeyJSON {
		t.Errorf("got %q, want %q", got, fakeKeyJSON)
	}
}

func TestResolveServiceAccount_Base64Inline(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(fakeKeyJSON))
	// Strip padding: the resolver must re-pad before decoding.
	encoded = strings.TrimRight(encoded, "=")

	got, err := ResolveServiceAccount(encoded)
	if err != nil {
		t.Fatalf("ResolveServiceAccount: %v", err)
	}
	if string(got) != fakeKeyJSON {
		t.Errorf("got %q, want %q", got, fakeKeyJSON)
	}
}

func TestResolveServiceAccount_Garbage(t *testing.T) {
	if _, err := ResolveServiceAccount("/no/such/file-and-not-base64!!"); err == nil {
		t.Error("expected error for unresolvable reference")
	}
}

func TestLoad_MissingRequiredValues(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_API_KEY", "GOOGLE_SHEET_ID", "GOOGLE_SERVICE_ACCOUNT_JSON",
		"LINE_CHANNEL_ACCESS_TOKEN", "LINE_CHANNEL_SECRET", "PORT",
	} {
		os.Unsetenv(key)
	}
	// Run from an empty directory so no stray .env file is picked up.
	t.Chdir(t.TempDir())

	if _, err := Load(); err == nil {
		t.Error("expected Load to fail with an empty environment")
	}
}

func TestLoad_CompleteEnvironment(t *testing.T) {
	dir := t.TempDir()
	saPath := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(saPath, []byte(fakeKeyJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	t.Setenv("GOOGLE_API_KEY", "test-api-key")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", saPath)
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.GeminiAPIKey != "test-api-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if string(cfg.ServiceAccountJSON) != fakeKeyJSON {
		t.Errorf("ServiceAccountJSON = %q", cfg.ServiceAccountJSON)
	}
}

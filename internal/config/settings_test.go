package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearVoiceEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ENV", "DEBUG", "SERVER_ADDR", "VOICE_PUBLIC_KEY", "VOICE_ASSISTANT_ID", "VOICE_BASE_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearVoiceEnv(t)
	t.Setenv("VOICE_PUBLIC_KEY", "pk-env")
	t.Setenv("VOICE_ASSISTANT_ID", "asst-env")

	dir := t.TempDir()
	cfg, err := Load([]string{"--config-dir", dir, "--env-file", filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Voice.PublicKey != "pk-env" {
		t.Errorf("public key = %q", cfg.Voice.PublicKey)
	}
	if cfg.Voice.AssistantID != "asst-env" {
		t.Errorf("assistant id = %q", cfg.Voice.AssistantID)
	}
	if cfg.Voice.BaseURL != "https://api.vapi.ai" {
		t.Errorf("base url = %q", cfg.Voice.BaseURL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout().Seconds() != 5 {
		t.Errorf("shutdown timeout = %s", cfg.Server.ShutdownTimeout())
	}
}

func TestLoadConfigFileAndFlags(t *testing.T) {
	clearVoiceEnv(t)
	dir := t.TempDir()
	yaml := `
voice:
  public_key: pk-file
  assistant_id: asst-file
  stop_timeout_secs: 2
server:
  addr: ":9000"
`
	if err := os.WriteFile(filepath.Join(dir, "config_dev.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--config-dir", dir, "--env-file", filepath.Join(dir, "none.env"), "--addr", ":7000"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Voice.PublicKey != "pk-file" || cfg.Voice.AssistantID != "asst-file" {
		t.Errorf("voice = %+v", cfg.Voice)
	}
	if cfg.Voice.StopTimeout().Seconds() != 2 {
		t.Errorf("stop timeout = %s", cfg.Voice.StopTimeout())
	}
	// flag wins over file
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearVoiceEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("VOICE_PUBLIC_KEY=pk-dotenv\nVOICE_ASSISTANT_ID=asst-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("VOICE_PUBLIC_KEY")
		os.Unsetenv("VOICE_ASSISTANT_ID")
	})

	cfg, err := Load([]string{"--config-dir", dir, "--env-file", envPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Voice.PublicKey != "pk-dotenv" {
		t.Errorf("public key = %q", cfg.Voice.PublicKey)
	}
}

func TestLoadRequiresIdentifiers(t *testing.T) {
	clearVoiceEnv(t)
	dir := t.TempDir()
	_, err := Load([]string{"--config-dir", dir, "--env-file", filepath.Join(dir, "none.env")})
	if err == nil {
		t.Fatal("expected error for missing identifiers")
	}
	if !strings.Contains(err.Error(), "voice.public_key") || !strings.Contains(err.Error(), "voice.assistant_id") {
		t.Errorf("error = %v", err)
	}
}

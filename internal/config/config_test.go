package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/dxftags/internal/codec"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/testutil/testlog"
	pelletier "github.com/pelletier/go-toml/v2"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dxftags.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverlaysDefinedKeysOnly(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, `target_revision = "AC1015"
workers = 2

[server]
node = "edge-b"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Revision() != revision.R2000 || cfg.Workers != 2 || cfg.Server.Node != "edge-b" {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.Server.Addr != def.Server.Addr || cfg.Policy() != codec.PolicyAbort || cfg.Log.Level != "info" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"revision": `target_revision = "R14"`,
		"policy":   `on_invalid = "ignore"`,
		"workers":  `workers = 0`,
		"level":    "[log]\nlevel = \"loud\"",
		"unknown":  `colour = "red"`,
	}
	for name, body := range cases {
		if _, err := Load(writeFile(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	_, err := Load(writeFile(t, `on_invalid = "ignore"`))
	if !errors.Is(err, codec.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestTemplatesLoadCleanly(t *testing.T) {
	testlog.Start(t)
	for _, kind := range []string{"convert", "server"} {
		path := filepath.Join(t.TempDir(), kind+".toml")
		if err := WriteTemplate(path, kind, false); err != nil {
			t.Fatalf("write %s template: %v", kind, err)
		}
		if _, err := Load(path); err != nil {
			t.Fatalf("load %s template: %v", kind, err)
		}
		if err := WriteTemplate(path, kind, false); err == nil {
			t.Fatalf("expected refusal to overwrite %s", path)
		}
	}
	if _, err := Template("batch"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	testlog.Start(t)
	cfg := DefaultConfig()
	cfg.OnInvalid = "skip"
	out, err := Encode(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(out), "on_invalid") || !strings.Contains(string(out), "[server]") {
		t.Fatalf("unexpected encoding:\n%s", out)
	}
	var back Config
	if err := pelletier.Unmarshal(out, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.OnInvalid != "skip" || back.Server.Addr != cfg.Server.Addr {
		t.Fatalf("round trip lost values: %+v", back)
	}
}

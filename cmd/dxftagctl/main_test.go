package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/dxftags/internal/testutil/testlog"
)

const point = "  0\nSECTION\n  2\nENTITIES\n" +
	"  0\nPOINT\n  5\n3C\n100\nAcDbEntity\n  8\nmarks\n100\nAcDbPoint\n 10\n4.0\n 20\n5.0\n 30\n6.0\n" +
	"  0\nENDSEC\n  0\nEOF\n"

func TestRunRequiresCommand(t *testing.T) {
	testlog.Start(t)
	if err := run(context.Background(), nil, nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
	if err := run(context.Background(), []string{"explode"}, nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
}

func TestConvertStdinToStdout(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	err := run(context.Background(), []string{"convert", "-revision", "R12"}, strings.NewReader(point), &out)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "AcDbPoint") || !strings.Contains(got, "  8\nmarks\n") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestConvertFiles(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.dxf")
	outPath := filepath.Join(dir, "out.dxf")
	if err := os.WriteFile(in, []byte(point), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	err := run(context.Background(), []string{"convert", "-in", in, "-out", outPath, "-revision", "R2000"}, nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "100\nAcDbPoint\n") {
		t.Fatalf("unexpected output:\n%s", data)
	}
}

func TestTypesAndConfigCommands(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"types"}, nil, &out); err != nil {
		t.Fatalf("types: %v", err)
	}
	if !strings.Contains(out.String(), "LAYER\n") {
		t.Fatalf("types output missing LAYER:\n%s", out.String())
	}

	path := filepath.Join(t.TempDir(), "dxftags.toml")
	out.Reset()
	if err := run(context.Background(), []string{"config", "-kind", "server", "-output", path}, nil, &out); err != nil {
		t.Fatalf("config write: %v", err)
	}
	out.Reset()
	if err := run(context.Background(), []string{"config", "-validate", "-input", path}, nil, &out); err != nil {
		t.Fatalf("config validate: %v", err)
	}
	out.Reset()
	if err := run(context.Background(), []string{"config", "-print", "-input", path}, nil, &out); err != nil {
		t.Fatalf("config print: %v", err)
	}
	if !strings.Contains(out.String(), "dxftags-a") {
		t.Fatalf("printed config missing node:\n%s", out.String())
	}
}

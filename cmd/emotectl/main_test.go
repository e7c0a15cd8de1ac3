package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isdelr/emote-panel-be/internal/store"
)

func memoryOpener(st *store.MemoryStore) opener {
	return func() (*app, error) {
		return newApp(st, nil), nil
	}
}

func run(t *testing.T, st *store.MemoryStore, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(memoryOpener(st))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSettingsCommands(t *testing.T) {
	st := store.NewMemoryStore()

	if _, err := run(t, st, "settings", "set-key", "s3cret"); err != nil {
		t.Fatalf("set-key: %v", err)
	}
	if _, err := run(t, st, "settings", "maintenance", "on"); err != nil {
		t.Fatalf("maintenance: %v", err)
	}
	out, err := run(t, st, "settings", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "s3cret") || !strings.Contains(out, "true") {
		t.Errorf("unexpected settings output:\n%s", out)
	}

	if _, err := run(t, st, "settings", "maintenance", "maybe"); err == nil {
		t.Error("expected invalid maintenance argument to fail")
	}
}

func TestServersCommands(t *testing.T) {
	st := store.NewMemoryStore()

	if _, err := run(t, st, "servers", "add", "--name", "EU"); err == nil {
		t.Error("expected missing url to be rejected")
	}
	out, err := run(t, st, "servers", "add", "--name", "EU", "--url", "https://eu.example.com", "--order", "0")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Added server EU") {
		t.Errorf("unexpected add output: %s", out)
	}

	out, err = run(t, st, "servers", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.Contains(lines[1], "EU") || !strings.Contains(lines[2], "INDIA") {
		t.Errorf("expected EU before INDIA, got:\n%s", out)
	}

	if _, err := run(t, st, "servers", "rm", "1"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	out, _ = run(t, st, "servers", "list")
	if strings.Contains(out, "INDIA") {
		t.Errorf("expected INDIA removed, got:\n%s", out)
	}
}

func TestEmotesCommands(t *testing.T) {
	st := store.NewMemoryStore()

	out, err := run(t, st, "emotes", "add", "--category", "Dance", "--image", "https://cdn.example.com/909000063.png")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Added emote 909000063") {
		t.Errorf("unexpected add output: %s", out)
	}

	out, err = run(t, st, "emotes", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "909000063") || !strings.Contains(out, "lol_emote_id") {
		t.Errorf("unexpected list output:\n%s", out)
	}
}

func TestDispatchAndStatsCommands(t *testing.T) {
	var got string
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RequestURI()
	}))
	defer target.Close()

	st := store.NewMemoryStore()
	if _, err := run(t, st, "servers", "add", "--name", "LOCAL", "--url", target.URL+"/", "--command", "kick"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, _ := run(t, st, "servers", "list")
	// LOCAL has order 0 and sorts ahead of the seeded server.
	id := strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[1])[0]

	out, err := run(t, st, "dispatch", "--server", id, "--emote", "dab", "--tc", "7", "--uid3", "33")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.HasPrefix(out, "Success!") {
		t.Errorf("unexpected dispatch output: %s", out)
	}
	if got != "/kick?tc=7&uid3=33&emote_id=dab" {
		t.Errorf("unexpected request %s", got)
	}

	out, _ = run(t, st, "dispatch", "--emote", "dab")
	if !strings.HasPrefix(out, "Please select a server.") {
		t.Errorf("unexpected no-target output: %s", out)
	}

	out, err = run(t, st, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 || !strings.HasSuffix(strings.TrimSpace(lines[7]), "1") {
		t.Errorf("expected seven days with today at 1, got:\n%s", out)
	}
}

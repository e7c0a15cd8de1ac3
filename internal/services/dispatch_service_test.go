package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/store"
)

func TestBuildDispatchURL(t *testing.T) {
	tests := []struct {
		name     string
		server   models.Server
		teamCode string
		uids     map[string]string
		emoteID  string
		want     string
	}{
		{
			name:     "trailing slash and empty slots",
			server:   models.Server{APIURL: "http://h/", Command: "join"},
			teamCode: "",
			uids:     map[string]string{"uid1": "A", "uid2": ""},
			emoteID:  "x",
			want:     "http://h/join?tc=&uid1=A&emote_id=x",
		},
		{
			name:     "default command and fixed uid order",
			server:   models.Server{APIURL: "https://api.example.com"},
			teamCode: "T1",
			uids:     map[string]string{"uid6": "6", "uid3": "3", "uid1": "1"},
			emoteID:  "909000063",
			want:     "https://api.example.com/join?tc=T1&uid1=1&uid3=3&uid6=6&emote_id=909000063",
		},
		{
			name:     "only one slash trimmed",
			server:   models.Server{APIURL: "http://h//", Command: "kick"},
			teamCode: "a b&c",
			emoteID:  "e",
			want:     "http://h//kick?tc=a+b%26c&emote_id=e",
		},
		{
			name:    "unknown uid keys ignored",
			server:  models.Server{APIURL: "http://h"},
			uids:    map[string]string{"uid7": "7", "extra": "x"},
			emoteID: "e",
			want:    "http://h/join?tc=&emote_id=e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildDispatchURL(tt.server, tt.teamCode, tt.uids, tt.emoteID); got != tt.want {
				t.Errorf("got %s\nwant %s", got, tt.want)
			}
		})
	}
}

func newDispatchFixture(t *testing.T, servers ...models.Server) (*DispatchService, *StatsService, *store.MemoryStore) {
	t.Helper()
	m := store.NewMemoryStore()
	if err := store.SetJSON(context.Background(), m, store.KeyServers, servers); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	catalog := NewCatalogService(m, nil, nil, fixedClock(testNow))
	stats := NewStatsService(m, nil, fixedClock(testNow))
	return NewDispatchService(catalog, stats, &fakeHub{}, nil), stats, m
}

func todayCount(stats []models.UsageStat) int {
	if len(stats) == 0 {
		return 0
	}
	return stats[len(stats)-1].Count
}

func TestSendEmoteHTTP(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		// The status code is never inspected.
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d, stats, _ := newDispatchFixture(t, models.Server{ID: "s1", Name: "IND", APIURL: srv.URL + "/", Order: 1})

	res := d.SendEmote(context.Background(), "session-1", models.DispatchRequest{
		ServerID: "s1",
		TeamCode: "123",
		UIDs:     map[string]string{"uid2": "42"},
		EmoteID:  "dab",
	})
	if res.Status != models.DispatchSent || res.Message != MsgSent {
		t.Fatalf("expected sent, got %+v", res)
	}
	if gotPath != "/join?tc=123&uid2=42&emote_id=dab" {
		t.Errorf("unexpected request %s", gotPath)
	}
	if n := todayCount(stats.GetStats(context.Background())); n != 1 {
		t.Errorf("expected today's count 1, got %d", n)
	}
}

func TestSendEmoteNoTarget(t *testing.T) {
	d, stats, _ := newDispatchFixture(t, models.Server{ID: "s1", Name: "IND", APIURL: "http://127.0.0.1:1"})

	res := d.SendEmote(context.Background(), "session-1", models.DispatchRequest{ServerID: "", EmoteID: "dab"})
	if res.Status != models.DispatchNoTarget || res.Message != MsgNoTarget {
		t.Fatalf("expected no target, got %+v", res)
	}
	if n := todayCount(stats.GetStats(context.Background())); n != 0 {
		t.Errorf("expected no usage counted, got %d", n)
	}
}

func TestSendEmoteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	d, _, _ := newDispatchFixture(t, models.Server{ID: "s1", Name: "IND", APIURL: url})
	res := d.SendEmote(context.Background(), "session-1", models.DispatchRequest{ServerID: "s1", EmoteID: "dab"})
	if res.Status != models.DispatchTransportError || res.Message != MsgTransportError {
		t.Fatalf("expected softened transport error, got %+v", res)
	}
}

func TestSendEmoteOneInFlightPerSession(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("emote_id") == "slow" {
			close(entered)
			<-unblock
		}
	}))
	defer srv.Close()

	d, _, _ := newDispatchFixture(t, models.Server{ID: "s1", Name: "IND", APIURL: srv.URL})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	var first models.DispatchResult
	go func() {
		defer wg.Done()
		first = d.SendEmote(ctx, "session-1", models.DispatchRequest{ServerID: "s1", EmoteID: "slow"})
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first dispatch never reached the server")
	}

	if res := d.SendEmote(ctx, "session-1", models.DispatchRequest{ServerID: "s1", EmoteID: "fast"}); res.Status != models.DispatchBusy {
		t.Errorf("expected busy for same session, got %+v", res)
	}
	if res := d.SendEmote(ctx, "session-2", models.DispatchRequest{ServerID: "s1", EmoteID: "fast"}); res.Status != models.DispatchSent {
		t.Errorf("expected other session to dispatch, got %+v", res)
	}

	close(unblock)
	wg.Wait()
	if first.Status != models.DispatchSent {
		t.Errorf("expected first dispatch sent, got %+v", first)
	}

	if res := d.SendEmote(ctx, "session-1", models.DispatchRequest{ServerID: "s1", EmoteID: "fast"}); res.Status != models.DispatchSent {
		t.Errorf("expected session free again, got %+v", res)
	}
}

type fakeRCON struct {
	commands []string
	err      error
}

func (f *fakeRCON) Execute(command string) (string, error) {
	f.commands = append(f.commands, command)
	return "", f.err
}

func (f *fakeRCON) Close() error { return nil }

func TestSendEmoteRCON(t *testing.T) {
	d, _, _ := newDispatchFixture(t, models.Server{ID: "r1", Name: "RCON", APIURL: "rcon://:hunter2@game.local:25575", Command: "emote"})

	conn := &fakeRCON{}
	var gotAddr, gotPassword string
	d.WithRCONDialer(func(address, password string) (RCONConn, error) {
		gotAddr, gotPassword = address, password
		return conn, nil
	})

	res := d.SendEmote(context.Background(), "session-1", models.DispatchRequest{
		ServerID: "r1",
		TeamCode: "77",
		UIDs:     map[string]string{"uid1": "A"},
		EmoteID:  "wave",
	})
	if res.Status != models.DispatchSent {
		t.Fatalf("expected sent, got %+v", res)
	}
	if gotAddr != "game.local:25575" || gotPassword != "hunter2" {
		t.Errorf("unexpected dial %s / %s", gotAddr, gotPassword)
	}
	if len(conn.commands) != 1 || conn.commands[0] != "emote tc=77 uid1=A emote_id=wave" {
		t.Errorf("unexpected commands %q", conn.commands)
	}

	d.WithRCONDialer(func(address, password string) (RCONConn, error) {
		return nil, errors.New("connection refused")
	})
	res = d.SendEmote(context.Background(), "session-1", models.DispatchRequest{ServerID: "r1", EmoteID: "wave"})
	if res.Status != models.DispatchTransportError {
		t.Errorf("expected transport error, got %+v", res)
	}
}

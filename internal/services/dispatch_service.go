package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorcon/rcon"
	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Messages shown to the user for each dispatch outcome.
const (
	MsgNoTarget       = "Please select a server."
	MsgSent           = "Success!"
	MsgTransportError = "Sent (Check Game)"
	MsgBusy           = "Still sending the previous emote."
)

// RCONConn is the part of an RCON connection the dispatcher uses.
type RCONConn interface {
	Execute(command string) (string, error)
	Close() error
}

// RCONDialer opens an RCON connection.
type RCONDialer func(address, password string) (RCONConn, error)

func dialRCON(address, password string) (RCONConn, error) {
	conn, err := rcon.Dial(address, password)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DispatchServiceProvider defines the interface for dispatch services.
type DispatchServiceProvider interface {
	SendEmote(ctx context.Context, sessionID string, req models.DispatchRequest) models.DispatchResult
}

// DispatchService fires emote requests at the configured servers. Requests
// are fire-and-forget: the response is never read, so a sent status only
// means the request left this process. Each session may have one dispatch
// in flight at a time.
type DispatchService struct {
	catalog CatalogServiceProvider
	stats   StatsServiceProvider
	hub     Broadcaster
	client  *http.Client
	dial    RCONDialer

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewDispatchService creates a new DispatchService. A nil client uses
// http.DefaultClient, which applies no request timeout.
func NewDispatchService(catalog CatalogServiceProvider, stats StatsServiceProvider, hub Broadcaster, client *http.Client) *DispatchService {
	if client == nil {
		client = http.DefaultClient
	}
	return &DispatchService{
		catalog:  catalog,
		stats:    stats,
		hub:      orNop(hub),
		client:   client,
		dial:     dialRCON,
		inFlight: make(map[string]struct{}),
	}
}

// WithRCONDialer replaces the RCON dialer.
func (s *DispatchService) WithRCONDialer(dial RCONDialer) *DispatchService {
	s.dial = dial
	return s
}

// SendEmote resolves the selected server and fires one request at it.
func (s *DispatchService) SendEmote(ctx context.Context, sessionID string, req models.DispatchRequest) models.DispatchResult {
	if !s.acquire(sessionID) {
		return models.DispatchResult{Status: models.DispatchBusy, Message: MsgBusy}
	}
	defer s.release(sessionID)

	server, ok := s.catalog.GetServer(ctx, req.ServerID)
	if !ok {
		return models.DispatchResult{Status: models.DispatchNoTarget, Message: MsgNoTarget}
	}

	// In-flight dispatches are not cancelled when the caller goes away.
	ctx = context.WithoutCancel(ctx)

	var (
		target string
		err    error
	)
	if isRCON(server.APIURL) {
		target, err = s.sendRCON(server, req)
	} else {
		target = BuildDispatchURL(server, req.TeamCode, req.UIDs, req.EmoteID)
		err = s.sendHTTP(ctx, target)
	}

	result := models.DispatchResult{Status: models.DispatchSent, Message: MsgSent, URL: target}
	if err != nil {
		log.Warn().Err(err).Str("server_id", server.ID).Str("emote_id", req.EmoteID).Msg("Emote dispatch hit a transport error")
		result = models.DispatchResult{Status: models.DispatchTransportError, Message: MsgTransportError, URL: target}
	} else {
		log.Info().Str("server", server.Name).Str("emote_id", req.EmoteID).Msg("Emote dispatched")
	}

	if s.stats != nil {
		s.stats.IncrementDailyStat(ctx)
	}
	s.hub.PublishTo(websocket.TopicAdmin, websocket.ActionDispatchStatus, map[string]string{
		"serverId": server.ID,
		"emoteId":  req.EmoteID,
		"status":   string(result.Status),
	})
	return result
}

// BuildDispatchURL builds {base}/{command}?tc=..&uid1=..&emote_id=.. with
// one trailing slash trimmed from the base. tc is always present, empty uid
// slots are skipped and emote_id always comes last.
func BuildDispatchURL(server models.Server, teamCode string, uids map[string]string, emoteID string) string {
	base := strings.TrimSuffix(server.APIURL, "/")
	return base + "/" + server.EffectiveCommand() + "?" + encodeQuery(dispatchParams(teamCode, uids, emoteID))
}

type param struct{ key, value string }

func dispatchParams(teamCode string, uids map[string]string, emoteID string) []param {
	params := []param{{"tc", teamCode}}
	for _, key := range models.UIDKeys {
		if v := uids[key]; v != "" {
			params = append(params, param{key, v})
		}
	}
	return append(params, param{"emote_id", emoteID})
}

// encodeQuery keeps the parameter order, which url.Values would sort away.
func encodeQuery(params []param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func (s *DispatchService) sendHTTP(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// The response is opaque to the panel; drain it so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func isRCON(apiURL string) bool {
	return strings.HasPrefix(strings.ToLower(apiURL), "rcon://")
}

// sendRCON runs the dispatch as an RCON command line such as
// "join tc=123 uid1=42 emote_id=dab". The returned target omits the password.
func (s *DispatchService) sendRCON(server models.Server, req models.DispatchRequest) (string, error) {
	u, err := url.Parse(server.APIURL)
	if err != nil {
		return server.APIURL, fmt.Errorf("invalid rcon url: %w", err)
	}
	password := ""
	if u.User != nil {
		if p, ok := u.User.Password(); ok {
			password = p
		} else {
			password = u.User.Username()
		}
	}

	parts := []string{server.EffectiveCommand()}
	for _, p := range dispatchParams(req.TeamCode, req.UIDs, req.EmoteID) {
		parts = append(parts, p.key+"="+p.value)
	}
	command := strings.Join(parts, " ")
	target := "rcon://" + u.Host + " " + command

	conn, err := s.dial(u.Host, password)
	if err != nil {
		return target, err
	}
	defer conn.Close()

	// The reply is as opaque as an HTTP response body.
	_, err = conn.Execute(command)
	return target, err
}

func (s *DispatchService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *DispatchService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

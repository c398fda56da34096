package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blogweb/internal/notify"
)

const defaultAPIBase = "https://api.telegram.org"

// ChatLookup returns extra admin chat ids, e.g. from linked accounts.
type ChatLookup func(ctx context.Context) ([]string, error)

type Notifier struct {
	botToken string
	chatIDs  []string
	lookup   ChatLookup
	client   *http.Client
	apiBase  string
}

// New returns notify.Noop when no bot token is configured.
func New(botToken string, chatIDs []string, lookup ChatLookup) notify.Notifier {
	botToken = strings.TrimSpace(botToken)
	if botToken == "" {
		return notify.Noop{}
	}
	var ids []string
	for _, id := range chatIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return &Notifier{
		botToken: botToken,
		chatIDs:  ids,
		lookup:   lookup,
		client:   defaultHTTPClient,
		apiBase:  defaultAPIBase,
	}
}

func (n *Notifier) NotifyAdmins(ctx context.Context, msg string) {
	if n == nil || n.botToken == "" {
		return
	}
	for _, chatID := range n.recipients(ctx) {
		sendMessage(ctx, n.client, n.apiBase, n.botToken, chatID, msg)
	}
}

func (n *Notifier) recipients(ctx context.Context) []string {
	seen := make(map[string]bool, len(n.chatIDs))
	var out []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range n.chatIDs {
		add(id)
	}
	if n.lookup != nil {
		ids, err := n.lookup(ctx)
		if err != nil {
			slog.Warn("telegram.admin_query_failed", "err", err)
		}
		for _, id := range ids {
			add(id)
		}
	}
	return out
}

var defaultHTTPClient = &http.Client{
	Timeout: 5 * time.Second,
}

func sendMessage(ctx context.Context, client *http.Client, apiBase, token, chatID, msg string) {
	if token == "" || chatID == "" {
		return
	}
	if client == nil {
		client = defaultHTTPClient
	}
	payload := map[string]string{
		"chat_id": chatID,
		"text":    msg,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("telegram.marshal", "err", err)
		return
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(apiBase, "/"), token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		slog.Warn("telegram.request", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("telegram.send", "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		slog.Warn("telegram.send.status", "status", resp.Status)
	}
}

package heroku

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"optin-webhook-service/internal/optin/core/domain"
	"optin-webhook-service/internal/optin/core/ports"
)

const DefaultBaseURL = "https://api.heroku.com"

// Dyno names the one-off worker run for a campaign.
type Dyno struct {
	App     string `json:"app"`
	Command string `json:"command"`
}

// Client triggers downstream jobs through the Heroku Platform API
// (one-off dyno create, API version 3).
type Client struct {
	apiKey  string
	baseURL string
	dynos   map[string]Dyno
	http    *http.Client
}

func NewClient(apiKey, baseURL string, dynos map[string]Dyno) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		dynos:   dynos,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

var _ ports.TriggerPort = (*Client)(nil)

type createDynoRequest struct {
	Command string            `json:"command"`
	Type    string            `json:"type"`
	Attach  bool              `json:"attach"`
	Env     map[string]string `json:"env,omitempty"`
}

// Dispatch starts one worker dyno for the campaign behind req. The subject
// id rides along as SUBJECT_ID in the dyno environment so the job knows
// who opted in. No retries: a transport failure or non-2xx answer comes
// back as an error and the caller keeps the consent claim.
func (c *Client) Dispatch(ctx context.Context, req domain.TriggerRequest) error {
	dyno, ok := c.dynos[req.CampaignKey]
	if !ok {
		return fmt.Errorf("no dyno configured for campaign %q", req.CampaignKey)
	}

	body := createDynoRequest{
		Command: dyno.Command,
		Type:    "worker",
		Attach:  false,
	}
	if req.SubjectID != "" {
		body.Env = map[string]string{"SUBJECT_ID": req.SubjectID}
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode dyno request: %w", err)
	}

	url := c.baseURL + "/apps/" + dyno.App + "/dynos"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("build dyno request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/vnd.heroku+json; version=3")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("trigger %s: %w", dyno.App, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("trigger %s: heroku api %d: %s", dyno.App, resp.StatusCode, snippet)
	}

	log.Info().
		Str("app", dyno.App).
		Str("campaign_key", req.CampaignKey).
		Msg("one-off dyno started")

	return nil
}

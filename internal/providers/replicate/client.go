package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vton-server/internal/infra"
)

// ErrMissingAPIToken indicates that the client was configured without credentials.
var ErrMissingAPIToken = errors.New("replicate: api token is required")

// Poll pacing for prediction status checks. Backoff doubles from the initial
// interval and is capped so a long render still gets checked regularly.
const (
	initialPollInterval = time.Second
	maxPollInterval     = 8 * time.Second
)

// Options configures the Replicate predictions client.
type Options struct {
	APIToken       string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	PollInterval   time.Duration
}

// Client performs HTTP calls to the Replicate predictions API and waits for
// a terminal status.
type Client struct {
	apiToken     string
	baseURL      string
	model        string
	version      string
	httpClient   *http.Client
	logger       *infra.Logger
	pollInterval time.Duration
}

// PredictionInput mirrors the IDM-VTON input schema on Replicate.
type PredictionInput struct {
	HumanImg      string `json:"human_img"`
	GarmImg       string `json:"garm_img"`
	GarmentDes    string `json:"garment_des"`
	Category      string `json:"category"`
	IsChecked     bool   `json:"is_checked"`
	IsCheckedCrop bool   `json:"is_checked_crop"`
	DenoiseSteps  int    `json:"denoise_steps"`
}

type createRequest struct {
	Version string          `json:"version"`
	Input   PredictionInput `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
	Detail string          `json:"detail"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = infra.DefaultIDMVTONModel
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = initialPollInterval
	}
	return &Client{
		apiToken:     strings.TrimSpace(opts.APIToken),
		baseURL:      baseURL,
		model:        model,
		version:      versionFromModel(model),
		httpClient:   httpClient,
		logger:       logger,
		pollInterval: pollInterval,
	}, nil
}

// Model returns the configured model pin.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiToken != ""
}

// Predict creates one prediction and blocks until it reaches a terminal
// status or ctx expires. It returns the output image URL on success.
func (c *Client) Predict(ctx context.Context, input PredictionInput) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIToken
	}

	created, err := c.create(ctx, input)
	if err != nil {
		return "", err
	}
	c.logger.Debug().
		Str("prediction_id", created.ID).
		Str("status", created.Status).
		Msg("replicate: prediction created")

	final, err := c.wait(ctx, created)
	if err != nil {
		return "", err
	}
	outputURL := parseOutput(final.Output)
	if outputURL == "" {
		return "", errors.New("replicate: prediction succeeded without output url")
	}
	return outputURL, nil
}

func (c *Client) create(ctx context.Context, input PredictionInput) (*prediction, error) {
	body, err := json.Marshal(createRequest{Version: c.version, Input: input})
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	return c.do(req)
}

// wait polls the prediction until it is terminal, honoring ctx cancellation
// between polls.
func (c *Client) wait(ctx context.Context, p *prediction) (*prediction, error) {
	interval := c.pollInterval
	for {
		switch p.Status {
		case "succeeded":
			return p, nil
		case "failed", "canceled":
			msg := predictionError(p)
			if msg == "" {
				msg = "prediction " + p.Status + " without message"
			}
			return nil, fmt.Errorf("replicate: %s", msg)
		case "starting", "processing", "queued":
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("replicate: wait for prediction: %w", ctx.Err())
			case <-time.After(interval):
			}
			if interval *= 2; interval > maxPollInterval {
				interval = maxPollInterval
			}
			next, err := c.get(ctx, p)
			if err != nil {
				return nil, err
			}
			p = next
		default:
			return nil, fmt.Errorf("replicate: unknown prediction status %q", p.Status)
		}
	}
}

func (c *Client) get(ctx context.Context, p *prediction) (*prediction, error) {
	pollURL := p.URLs.Get
	if pollURL == "" {
		pollURL = c.baseURL + "/predictions/" + p.ID
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollURL, nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: build poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var detail prediction
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
			return nil, fmt.Errorf("replicate: status %d: %s", resp.StatusCode, detail.Detail)
		}
		return nil, fmt.Errorf("replicate: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded prediction
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("replicate: decode response: %w", err)
	}
	return &decoded, nil
}

// versionFromModel extracts the version hash from an "owner/name:version"
// pin. A bare version string passes through unchanged.
func versionFromModel(model string) string {
	if _, version, found := strings.Cut(model, ":"); found {
		return version
	}
	return model
}

// parseOutput handles the output shapes IDM-VTON is known to return: a bare
// URL string or a list of URL strings.
func parseOutput(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}

func predictionError(p *prediction) string {
	if len(p.Error) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(p.Error, &msg); err == nil {
		return strings.TrimSpace(msg)
	}
	return strings.TrimSpace(string(p.Error))
}

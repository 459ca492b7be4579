// Package channel provides a client for reading Telegram channel history
// through an MTProto HTTP bridge. The bridge exposes a stable JSON
// call/response contract; session handling, flood control and the rest
// of the Telegram protocol live behind it.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// pageSize is the number of messages requested per history page.
const pageSize = 100

// Photo identifies one photo attachment on a message.
type Photo struct {
	FileID string `json:"file_id"`
}

// Message is one unit of channel content: text plus optional media,
// identified by a monotonically increasing numeric id. Date carries
// whatever zone the bridge reports; callers normalize.
type Message struct {
	ID     int64     `json:"id"`
	Date   time.Time `json:"date"`
	Text   string    `json:"text"`
	Photos []Photo   `json:"photos"`
}

// Client is a client for the channel bridge.
type Client struct {
	baseURL     string
	apiID       int64
	apiHash     string
	sessionFile string
	session     string
	httpClient  *http.Client
}

// Config holds the configuration for the channel client.
type Config struct {
	BaseURL     string        // e.g., "http://127.0.0.1:8081"
	APIID       int64         // Telegram application id
	APIHash     string        // Telegram application secret
	SessionFile string        // local file persisting the session token
	Timeout     time.Duration // request timeout (default: 60 seconds)
}

// NewClient creates a new channel bridge client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		apiID:       config.APIID,
		apiHash:     config.APIHash,
		sessionFile: config.SessionFile,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type loginRequest struct {
	APIID   int64  `json:"api_id"`
	APIHash string `json:"api_hash"`
}

type loginResponse struct {
	Session string `json:"session"`
}

// Login performs the credential handshake with the bridge and persists
// the returned session token. When a session token is already stored it
// is reused without a new handshake, matching the one-time interactive
// login flow.
func (c *Client) Login(ctx context.Context) error {
	if data, err := os.ReadFile(c.sessionFile); err == nil {
		if session := strings.TrimSpace(string(data)); session != "" {
			c.session = session
			return nil
		}
	}

	reqBody, err := json.Marshal(loginRequest{APIID: c.apiID, APIHash: c.apiHash})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/login", strings.NewReader(string(reqBody)))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bridge login returned status %d: %s", resp.StatusCode, string(body))
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("parse login response: %w", err)
	}
	if loginResp.Session == "" {
		return fmt.Errorf("bridge login returned empty session")
	}

	if err := os.WriteFile(c.sessionFile, []byte(loginResp.Session), 0o600); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	c.session = loginResp.Session
	return nil
}

type historyResponse struct {
	Messages []Message `json:"messages"`
}

// History enumerates the channel's messages oldest first. Pages are
// fetched by ascending message id until the bridge returns an empty
// page, so the result is a chronological replay of the channel.
func (c *Client) History(ctx context.Context, channelName string) ([]Message, error) {
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	var all []Message
	offsetID := int64(0)

	for {
		page, err := c.historyPage(ctx, channelName, offsetID)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return all, nil
		}

		all = append(all, page...)
		offsetID = page[len(page)-1].ID
	}
}

func (c *Client) historyPage(ctx context.Context, channelName string, offsetID int64) ([]Message, error) {
	endpoint := fmt.Sprintf("%s/v1/channels/%s/messages?offset_id=%d&limit=%d",
		c.baseURL, url.PathEscape(channelName), offsetID, pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create history request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch channel history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bridge history returned status %d: %s", resp.StatusCode, string(body))
	}

	var historyResp historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&historyResp); err != nil {
		return nil, fmt.Errorf("parse history response: %w", err)
	}

	return historyResp.Messages, nil
}

// DownloadPhoto retrieves the raw bytes of one photo attachment.
func (c *Client) DownloadPhoto(ctx context.Context, photo Photo) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/photos/%s", c.baseURL, url.PathEscape(photo.FileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create photo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bridge photo returned status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read photo body: %w", err)
	}

	return data, nil
}

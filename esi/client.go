// Package esi talks to the EVE Online HTTP APIs: the SSO login server for
// the authorization-code flow and the ESI data plane for contracts.
package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	errs "github.com/evebay/evebay-api/internal/errors"
)

const defaultBaseURL = "https://esi.evetech.net/latest"

// Client is a thin client for the ESI data endpoints used by the gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption modifies a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the ESI base URL (primarily for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

func NewClient(options ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// CorporationContracts fetches every contract of the corporation. A null or
// empty upstream list is a valid empty result, not an error.
func (c *Client) CorporationContracts(ctx context.Context, corporationID int, accessToken string) ([]Contract, error) {
	url := fmt.Sprintf("%s/corporations/%d/contracts/", c.baseURL, corporationID)
	body, err := c.get(ctx, url, accessToken)
	if err != nil {
		return nil, err
	}

	var contracts []Contract
	if err := json.Unmarshal(body, &contracts); err != nil {
		return nil, errs.Wrapf(errs.ErrDeserialization, "corporation %d contracts: %v", corporationID, err)
	}
	if contracts == nil {
		contracts = []Contract{}
	}
	return contracts, nil
}

// PublicContract fetches a single public contract. Returns ErrNotFound when
// upstream reports the contract does not exist.
func (c *Client) PublicContract(ctx context.Context, contractID int, accessToken string) (*Contract, error) {
	url := fmt.Sprintf("%s/contracts/public/%d/", c.baseURL, contractID)
	body, err := c.get(ctx, url, accessToken)
	if err != nil {
		return nil, err
	}

	var contract Contract
	if err := json.Unmarshal(body, &contract); err != nil {
		return nil, errs.Wrapf(errs.ErrDeserialization, "contract %d details: %v", contractID, err)
	}
	return &contract, nil
}

// ContractItems fetches the raw line items of a corporation contract.
func (c *Client) ContractItems(ctx context.Context, corporationID, contractID int, accessToken string) ([]ContractItem, error) {
	url := fmt.Sprintf("%s/corporations/%d/contracts/%d/items/", c.baseURL, corporationID, contractID)
	body, err := c.get(ctx, url, accessToken)
	if err != nil {
		return nil, err
	}

	var items []ContractItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errs.Wrapf(errs.ErrDeserialization, "contract %d items: %v", contractID, err)
	}
	if items == nil {
		items = []ContractItem{}
	}
	return items, nil
}

// TypeName resolves a type id against the universe type endpoint. Callers
// decide what to do on failure; the placeholder policy lives in the cache.
func (c *Client) TypeName(ctx context.Context, typeID int) (string, error) {
	url := fmt.Sprintf("%s/universe/types/%d/", c.baseURL, typeID)
	body, err := c.get(ctx, url, "")
	if err != nil {
		return "", err
	}

	var info typeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", errs.Wrapf(errs.ErrDeserialization, "universe type %d: %v", typeID, err)
	}
	if info.Name == "" {
		return "", errs.Wrapf(errs.ErrDeserialization, "universe type %d: missing name", typeID)
	}
	return info.Name, nil
}

func (c *Client) get(ctx context.Context, url, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrapf(err, "building request for %s", url)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrUpstreamHTTP, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.ErrNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("esi request failed")
		return nil, &errs.StatusError{Operation: "GET " + url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrUpstreamHTTP, "GET %s: reading body: %v", url, err)
	}
	return body, nil
}

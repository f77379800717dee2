package resttokenadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
	"github.com/rakesh-sdlc/ng-contracts/pkg/errors"
)

// client talks to a token endpoint exposing mint, burn, batch and supply
// routes under /v1/tokens/{tokenAddress}. One factory serves every token
// behind the same base URL.
type client struct {
	tokenAddress domain.Address
	url          string
	httpClient   *http.Client
}

type factory struct {
	url        string
	httpClient *http.Client
}

func NewTokenAdapterFactory(url string) ports.TokenAdapterFactory {
	url = strings.TrimSuffix(url, "/")

	return &factory{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *factory) AdapterFor(tokenAddress domain.Address) ports.TokenAdapter {
	return &client{
		tokenAddress: tokenAddress,
		url:          f.url,
		httpClient:   f.httpClient,
	}
}

type transferRequest struct {
	Account domain.Address `json:"account"`
	Amount  uint64         `json:"amount"`
}

type batchRequest struct {
	Accounts []domain.Address `json:"accounts"`
	Amounts  []uint64         `json:"amounts"`
}

type supplyResponse struct {
	TotalSupply uint64 `json:"total_supply"`
}

func (c *client) Mint(ctx context.Context, to domain.Address, amount uint64) error {
	_, err := c.makeRequest(ctx, http.MethodPost, "/mint", transferRequest{
		Account: to, Amount: amount,
	})
	return err
}

func (c *client) BurnFrom(ctx context.Context, from domain.Address, amount uint64) error {
	_, err := c.makeRequest(ctx, http.MethodPost, "/burn", transferRequest{
		Account: from, Amount: amount,
	})
	return err
}

func (c *client) BatchMint(
	ctx context.Context, recipients []domain.Address, amounts []uint64,
) error {
	_, err := c.makeRequest(ctx, http.MethodPost, "/batch-mint", batchRequest{
		Accounts: recipients, Amounts: amounts,
	})
	return err
}

func (c *client) BatchBurn(
	ctx context.Context, holders []domain.Address, amounts []uint64,
) error {
	_, err := c.makeRequest(ctx, http.MethodPost, "/batch-burn", batchRequest{
		Accounts: holders, Amounts: amounts,
	})
	return err
}

func (c *client) TotalSupply(ctx context.Context) (uint64, error) {
	data, err := c.makeRequest(ctx, http.MethodGet, "/supply", nil)
	if err != nil {
		return 0, err
	}

	var resp supplyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal supply response: %w", err)
	}
	return resp.TotalSupply, nil
}

func (c *client) makeRequest(
	ctx context.Context, method, route string, payload interface{},
) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	endpoint := fmt.Sprintf("%s/v1/tokens/%s%s", c.url, c.tokenAddress, route)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	// nolint:errcheck
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return bodyBytes, nil
	case http.StatusUnprocessableEntity:
		return nil, errors.INSUFFICIENT_BALANCE.New(
			"token %s rejected the operation: %s", c.tokenAddress, string(bodyBytes),
		)
	default:
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}
}

package node

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	contentTypeSignedTransaction = "application/x.aptos.signed_transaction+bcs"

	errorCodeResourceNotFound    = "resource_not_found"
	errorCodeAccountNotFound     = "account_not_found"
	errorCodeTransactionNotFound = "transaction_not_found"
	errorCodeVMError             = "vm_error"
	errorCodeMempoolFull         = "mempool_is_full"
	errorCodeInvalidTransaction  = "invalid_transaction_update"
	errorCodeSequenceNumberOld   = "sequence_number_too_old"
)

type Config struct {
	Network    string
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
	Logger     *zerolog.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	headers    map[string]string
	log        zerolog.Logger
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL, err = shared.NodeURL(network)
		if err != nil {
			return nil, err
		}
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, shared.NewConfigurationError("new node client", "", fmt.Errorf("invalid node base URL: %w", err))
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, shared.NewConfigurationError("new node client", "", fmt.Errorf("invalid node base URL: scheme must be http or https"))
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, shared.NewConfigurationError("new node client", "", fmt.Errorf("invalid node base URL: host is required"))
	}
	baseURL = strings.TrimRight(parsedBaseURL.String(), "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(config.APIKey),
		headers:    headers,
		log:        shared.LoggerOrNop(config.Logger).With().Str("component", "node").Logger(),
	}, nil
}

// BaseURL returns the REST endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetAccount returns the account's sequence number and authentication key.
func (c *Client) GetAccount(ctx context.Context, address account.Address) (AccountInfo, error) {
	var info AccountInfo
	path := fmt.Sprintf("/accounts/%s", address.String())
	if err := c.getJSON(ctx, "get account", address.String(), path, &info); err != nil {
		return AccountInfo{}, err
	}
	return info, nil
}

// GetSequenceNumber returns the account's current on-chain sequence number.
func (c *Client) GetSequenceNumber(ctx context.Context, address account.Address) (uint64, error) {
	info, err := c.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return uint64(info.SequenceNumber), nil
}

// GetLedgerInfo returns the node's view of the ledger head.
func (c *Client) GetLedgerInfo(ctx context.Context) (LedgerInfo, error) {
	var info LedgerInfo
	if err := c.getJSON(ctx, "get ledger info", "", "/", &info); err != nil {
		return LedgerInfo{}, err
	}
	return info, nil
}

// ChainID returns the chain id transactions must carry.
func (c *Client) ChainID(ctx context.Context) (uint8, error) {
	info, err := c.GetLedgerInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.ChainID, nil
}

// GetAccountResource returns one resource by owner address and type tag.
func (c *Client) GetAccountResource(ctx context.Context, address account.Address, resourceType string) (Resource, error) {
	var resource Resource
	if strings.TrimSpace(resourceType) == "" {
		return resource, shared.NewConfigurationError("get account resource", address.String(), fmt.Errorf("resource type is required"))
	}
	path := fmt.Sprintf("/accounts/%s/resource/%s", address.String(), url.PathEscape(resourceType))
	if err := c.getJSON(ctx, "get account resource", address.String(), path, &resource); err != nil {
		return Resource{}, err
	}
	return resource, nil
}

// SubmitTransaction posts BCS signed transaction bytes and returns the
// pending transaction reported by the node.
func (c *Client) SubmitTransaction(ctx context.Context, sender account.Address, signed []byte) (PendingTransaction, error) {
	var pending PendingTransaction
	body, err := c.do(ctx, "submit transaction", sender.String(), http.MethodPost, "/transactions", contentTypeSignedTransaction, signed)
	if err != nil {
		return pending, err
	}
	if err := json.Unmarshal(body, &pending); err != nil {
		return pending, shared.NewNetworkError("submit transaction", sender.String(), 0, errors.Wrap(err, "failed to decode node response"))
	}
	c.log.Debug().Str("sender", sender.String()).Str("hash", pending.Hash).Msg("transaction submitted")
	return pending, nil
}

// GetTransactionByHash returns a pending or committed transaction.
func (c *Client) GetTransactionByHash(ctx context.Context, hash string) (Transaction, error) {
	var transaction Transaction
	normalized := strings.TrimSpace(hash)
	if normalized == "" {
		return transaction, shared.NewConfigurationError("get transaction", "", fmt.Errorf("transaction hash is required"))
	}
	path := fmt.Sprintf("/transactions/by_hash/%s", normalized)
	if err := c.getJSON(ctx, "get transaction", "", path, &transaction); err != nil {
		return Transaction{}, err
	}
	return transaction, nil
}

func (c *Client) getJSON(ctx context.Context, op string, address string, path string, target any) error {
	body, err := c.do(ctx, op, address, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return shared.NewNetworkError(op, address, 0, errors.Wrapf(err, "failed to decode node response: %s", truncate(body)))
	}
	return nil
}

func (c *Client) do(
	ctx context.Context,
	op string,
	address string,
	method string,
	path string,
	contentType string,
	payload []byte,
) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.resolveURL(path), reader)
	if err != nil {
		return nil, shared.NewNetworkError(op, address, 0, errors.Wrap(err, "failed to create request"))
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Encoding", "br, gzip")
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, shared.NewNetworkError(op, address, 0, err)
	}
	defer response.Body.Close()

	body, err := readBody(response)
	if err != nil {
		return nil, shared.NewNetworkError(op, address, response.StatusCode, errors.Wrap(err, "failed to read node response"))
	}

	c.log.Trace().
		Str("method", method).
		Str("path", path).
		Int("status", response.StatusCode).
		Msg("node request")

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, classifyFailure(op, address, response.StatusCode, body)
	}
	return body, nil
}

func readBody(response *http.Response) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(response.Header.Get("Content-Encoding"))) {
	case "br":
		return io.ReadAll(brotli.NewReader(response.Body))
	case "gzip":
		gzipReader, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		return io.ReadAll(gzipReader)
	default:
		return io.ReadAll(response.Body)
	}
}

func classifyFailure(op string, address string, status int, body []byte) error {
	apiErr := &APIError{}
	if decodeErr := json.Unmarshal(body, apiErr); decodeErr != nil || apiErr.Message == "" {
		apiErr = &APIError{Message: strings.TrimSpace(string(body))}
	}

	switch apiErr.ErrorCode {
	case errorCodeResourceNotFound, errorCodeAccountNotFound, errorCodeTransactionNotFound:
		return shared.NewNetworkError(op, address, status, errors.Wrap(shared.ErrResourceNotFound, apiErr.Error()))
	case errorCodeVMError, errorCodeInvalidTransaction, errorCodeSequenceNumberOld, errorCodeMempoolFull:
		return shared.NewRejectionError(op, address, "", apiErr.Message)
	}
	if status == http.StatusNotFound {
		return shared.NewNetworkError(op, address, status, errors.Wrap(shared.ErrResourceNotFound, apiErr.Error()))
	}
	return shared.NewNetworkError(op, address, status, apiErr)
}

func (c *Client) resolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}

	path := pathOrURL
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

func truncate(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

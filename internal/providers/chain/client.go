package chain

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/sha3"

	"server/internal/domain"
	"server/internal/infra"
)

// ErrMissingEndpoint indicates the client was configured without an RPC URL
// or contract address.
var ErrMissingEndpoint = errors.New("chain: rpc url and contract address are required")

// weiDigits is the number of fractional digits in the contract's smallest
// denomination. Raw amounts are scaled down by 10^18 exactly, so the shift
// truncates toward zero by construction.
const weiDigits = 18

// Options configures the read-only contract client.
type Options struct {
	RPCURL          string
	ContractAddress string
	HTTPClient      *http.Client
	Logger          *infra.Logger
	RequestTimeout  time.Duration
}

// Client performs eth_call queries against the crowdfunding contract. It is
// strictly read-only: it holds no keys and never submits transactions.
type Client struct {
	rpcURL     string
	contract   string
	httpClient *http.Client
	logger     *infra.Logger
}

// CampaignFacts is the decoded result of the contract's getCampaign call.
// Older contract deployments return six fields without Active; the decoder
// treats the missing field as true.
type CampaignFacts struct {
	Owner          string
	Goal           decimal.Decimal
	Deadline       time.Time
	TotalRaised    decimal.Decimal
	GoalReached    bool
	FundsWithdrawn bool
	Active         bool
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type callParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	rpcURL := strings.TrimSpace(opts.RPCURL)
	contract := strings.TrimSpace(opts.ContractAddress)
	if rpcURL == "" || contract == "" {
		return nil, ErrMissingEndpoint
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		rpcURL:     rpcURL,
		contract:   contract,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// FetchCampaignFacts queries getCampaign(uint256) and decodes the returned
// tuple. Transport and RPC failures come back as domain.ErrChainUnavailable;
// a response that is not a 6- or 7-word tuple is domain.ErrChainSchemaMismatch.
func (c *Client) FetchCampaignFacts(ctx context.Context, campaignChainID int64) (*CampaignFacts, error) {
	words, err := c.call(ctx, "getCampaign(uint256)", campaignChainID)
	if err != nil {
		return nil, err
	}

	// Current deployments return (owner, goal, deadline, totalRaised,
	// goalReached, fundsWithdrawn, active); the first contract version has no
	// trailing active flag.
	if len(words) != 6 && len(words) != 7 {
		return nil, fmt.Errorf("chain: getCampaign returned %d words: %w", len(words), domain.ErrChainSchemaMismatch)
	}

	facts := &CampaignFacts{
		Owner:          wordToAddress(words[0]),
		Goal:           weiToDecimal(wordToBig(words[1])),
		Deadline:       time.Unix(wordToBig(words[2]).Int64(), 0).UTC(),
		TotalRaised:    weiToDecimal(wordToBig(words[3])),
		GoalReached:    wordToBool(words[4]),
		FundsWithdrawn: wordToBool(words[5]),
		Active:         true,
	}
	if len(words) == 7 {
		facts.Active = wordToBool(words[6])
	}
	return facts, nil
}

// DonationCount queries getDonationCount(uint256).
func (c *Client) DonationCount(ctx context.Context, campaignChainID int64) (int64, error) {
	words, err := c.call(ctx, "getDonationCount(uint256)", campaignChainID)
	if err != nil {
		return 0, err
	}
	if len(words) != 1 {
		return 0, fmt.Errorf("chain: getDonationCount returned %d words: %w", len(words), domain.ErrChainSchemaMismatch)
	}
	return wordToBig(words[0]).Int64(), nil
}

// IsRefundable queries isRefundable(uint256).
func (c *Client) IsRefundable(ctx context.Context, campaignChainID int64) (bool, error) {
	words, err := c.call(ctx, "isRefundable(uint256)", campaignChainID)
	if err != nil {
		return false, err
	}
	if len(words) != 1 {
		return false, fmt.Errorf("chain: isRefundable returned %d words: %w", len(words), domain.ErrChainSchemaMismatch)
	}
	return wordToBool(words[0]), nil
}

func (c *Client) call(ctx context.Context, signature string, arg int64) ([][]byte, error) {
	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "eth_call",
		Params: []any{
			callParams{To: c.contract, Data: encodeCall(signature, big.NewInt(arg))},
			"latest",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("chain: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("chain: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chain: rpc request: %v: %w", err, domain.ErrChainUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("chain: read response: %v: %w", err, domain.ErrChainUnavailable)
	}
	if resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("chain rpc returned non-2xx")
		return nil, fmt.Errorf("chain: rpc status %d: %w", resp.StatusCode, domain.ErrChainUnavailable)
	}

	var decoded rpcResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("chain: decode response: %v: %w", err, domain.ErrChainUnavailable)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("chain: rpc error %d %s: %w", decoded.Error.Code, decoded.Error.Message, domain.ErrChainUnavailable)
	}

	return splitWords(decoded.Result)
}

// encodeCall builds the eth_call data payload: 4-byte keccak selector of the
// signature followed by the uint256 argument left-padded to 32 bytes.
func encodeCall(signature string, arg *big.Int) string {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(signature))
	selector := hash.Sum(nil)[:4]

	word := make([]byte, 32)
	arg.FillBytes(word)

	return "0x" + hex.EncodeToString(selector) + hex.EncodeToString(word)
}

func splitWords(result string) ([][]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(result), "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("chain: empty call result: %w", domain.ErrChainSchemaMismatch)
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("chain: malformed call result: %w", domain.ErrChainSchemaMismatch)
	}
	if len(raw)%32 != 0 {
		return nil, fmt.Errorf("chain: call result is %d bytes: %w", len(raw), domain.ErrChainSchemaMismatch)
	}
	words := make([][]byte, 0, len(raw)/32)
	for i := 0; i < len(raw); i += 32 {
		words = append(words, raw[i:i+32])
	}
	return words, nil
}

func wordToBig(word []byte) *big.Int {
	return new(big.Int).SetBytes(word)
}

func wordToBool(word []byte) bool {
	return wordToBig(word).Sign() != 0
}

func wordToAddress(word []byte) string {
	return "0x" + hex.EncodeToString(word[12:])
}

func weiToDecimal(raw *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -weiDigits)
}

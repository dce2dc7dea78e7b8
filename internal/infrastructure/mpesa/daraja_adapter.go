package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/payment"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/config"
)

const (
	oauthPath             = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath           = "/mpesa/stkpush/v1/processrequest"
	accountBalancePath    = "/mpesa/accountbalance/v1/query"
	transactionStatusPath = "/mpesa/transactionstatus/v1/query"

	timestampLayout = "20060102150405"

	// tokenSlack renews the OAuth token slightly before it expires
	tokenSlack = time.Minute
)

// CallbackURLs are the public endpoints registered with every request
// so the gateway knows where to deliver asynchronous results.
type CallbackURLs struct {
	STKCallback   string
	BalanceResult string
	StatusResult  string
}

// DarajaAdapter implements the payment.Gateway port against the
// Safaricom Daraja REST API.
type DarajaAdapter struct {
	config     *config.MpesaConfig
	callbacks  CallbackURLs
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewDarajaAdapter creates a Daraja adapter
func NewDarajaAdapter(cfg *config.MpesaConfig, callbacks CallbackURLs, logger *zap.Logger) (*DarajaAdapter, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("mpesa: consumer key and secret are required")
	}
	if cfg.ShortCode == "" {
		return nil, fmt.Errorf("mpesa: short code is required")
	}

	return &DarajaAdapter{
		config:    cfg,
		callbacks: callbacks,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("daraja"),
	}, nil
}

// STKPush initiates a payment prompt on the customer's phone
func (a *DarajaAdapter) STKPush(ctx context.Context, req *payment.STKPushRequest) (*payment.STKPushResponse, error) {
	timestamp := time.Now().Format(timestampLayout)
	phone := payment.NormalizeMSISDN(req.Phone)

	body := stkPushRequest{
		BusinessShortCode: a.config.ShortCode,
		Password:          a.stkPassword(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount.Truncate(0).IntPart(),
		PartyA:            phone,
		PartyB:            a.config.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       a.callbacks.STKCallback,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
	}

	respBody, err := a.doRequest(ctx, stkPushPath, body)
	if err != nil {
		return nil, err
	}

	var resp stkPushResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if resp.CheckoutRequestID == "" {
		return nil, fmt.Errorf("%w: missing CheckoutRequestID", payment.ErrGatewayInvalidResponse)
	}

	a.logger.Info("STK push accepted",
		zap.String("checkout_request_id", resp.CheckoutRequestID),
		zap.String("response_code", resp.ResponseCode),
	)

	return &payment.STKPushResponse{
		CheckoutRequestID:   resp.CheckoutRequestID,
		MerchantRequestID:   resp.MerchantRequestID,
		ResponseCode:        resp.ResponseCode,
		ResponseDescription: resp.ResponseDescription,
		CustomerMessage:     resp.CustomerMessage,
	}, nil
}

// QueryTransactionStatus requests the status of a past transaction
func (a *DarajaAdapter) QueryTransactionStatus(ctx context.Context, transactionID string) (*payment.StatusQueryResponse, error) {
	body := transactionStatusRequest{
		Initiator:          a.config.InitiatorName,
		SecurityCredential: a.config.SecurityCredential,
		CommandID:          "TransactionStatusQuery",
		TransactionID:      transactionID,
		PartyA:             a.config.ShortCode,
		IdentifierType:     "4",
		ResultURL:          a.callbacks.StatusResult,
		QueueTimeOutURL:    a.callbacks.StatusResult,
		Remarks:            "Transaction status query",
	}

	respBody, err := a.doRequest(ctx, transactionStatusPath, body)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}

	return &payment.StatusQueryResponse{
		ConversationID:           resp.ConversationID,
		OriginatorConversationID: resp.OriginatorConversationID,
		ResponseDescription:      resp.ResponseDescription,
	}, nil
}

// QueryAccountBalance requests the shop's account balance
func (a *DarajaAdapter) QueryAccountBalance(ctx context.Context) (*payment.BalanceQueryResponse, error) {
	body := accountBalanceRequest{
		Initiator:          a.config.InitiatorName,
		SecurityCredential: a.config.SecurityCredential,
		CommandID:          "AccountBalance",
		PartyA:             a.config.ShortCode,
		IdentifierType:     "4",
		Remarks:            "Account balance query",
		QueueTimeOutURL:    a.callbacks.BalanceResult,
		ResultURL:          a.callbacks.BalanceResult,
	}

	respBody, err := a.doRequest(ctx, accountBalancePath, body)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}

	return &payment.BalanceQueryResponse{
		ConversationID:           resp.ConversationID,
		OriginatorConversationID: resp.OriginatorConversationID,
		ResponseDescription:      resp.ResponseDescription,
	}, nil
}

// stkPassword is base64(shortcode + passkey + timestamp)
func (a *DarajaAdapter) stkPassword(timestamp string) string {
	return base64.StdEncoding.EncodeToString(
		[]byte(a.config.ShortCode + a.config.PassKey + timestamp))
}

// token returns a valid OAuth access token, fetching a new one when
// the cached token is missing or about to expire.
func (a *DarajaAdapter) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry.Add(-tokenSlack)) {
		return a.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+oauthPath, nil)
	if err != nil {
		return "", fmt.Errorf("mpesa: failed to create auth request: %w", err)
	}
	req.SetBasicAuth(a.config.ConsumerKey, a.config.ConsumerSecret)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d", payment.ErrGatewayAuthFailed, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("mpesa: failed to read auth response: %w", err)
	}

	var oauth oauthResponse
	if err := json.Unmarshal(respBody, &oauth); err != nil {
		return "", fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if oauth.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", payment.ErrGatewayAuthFailed)
	}

	// expires_in arrives as a string of seconds, typically "3599"
	expiresIn := 3600 * time.Second
	if secs, err := time.ParseDuration(strings.TrimSpace(oauth.ExpiresIn) + "s"); err == nil {
		expiresIn = secs
	}

	a.accessToken = oauth.AccessToken
	a.tokenExpiry = time.Now().Add(expiresIn)
	return a.accessToken, nil
}

// doRequest posts a JSON body to the given API path with OAuth
func (a *DarajaAdapter) doRequest(ctx context.Context, path string, body interface{}) ([]byte, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	payloadBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("mpesa: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("mpesa: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mpesa: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.ErrorMessage != "" {
			return nil, fmt.Errorf("%w: %s (%s)", payment.ErrGatewayRequestFailed,
				apiErr.ErrorMessage, apiErr.ErrorCode)
		}
		return nil, fmt.Errorf("%w: HTTP %d", payment.ErrGatewayRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// Ensure DarajaAdapter implements the Gateway port
var _ payment.Gateway = (*DarajaAdapter)(nil)

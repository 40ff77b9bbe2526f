package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

type Client interface {
	Login(ctx context.Context, email, password string) (*models.AuthData, error)
	Signup(ctx context.Context, name, email, password string) (*models.AuthData, error)
	ValidateToken(ctx context.Context) error
	GetInstruments(ctx context.Context) ([]models.Instrument, error)
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderReceipt, error)
	GetBalance(ctx context.Context) (*models.WalletBalance, error)
	UpdateBalance(ctx context.Context, op models.OperationType, amount float64) (*models.WalletInfo, error)
	GetFavorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, symbol string) error
	RemoveFavorite(ctx context.Context, symbol string) error
}

// TokenSource supplies the bearer token attached to authenticated calls.
type TokenSource interface {
	Token() (string, error)
	SetToken(token string) error
}

type HTTPClient struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

type Options struct {
	BaseURL string
	Tokens  TokenSource
	Timeout time.Duration
	// Requests per second against the backend, with Burst extra headroom.
	// Zero means no throttling.
	RequestRate  float64
	RequestBurst int
	Logger       *logrus.Logger
}

func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestRate > 0 {
		burst := opts.RequestBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestRate), burst)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &HTTPClient{
		baseURL:    opts.BaseURL,
		tokens:     opts.Tokens,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger,
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthData, error) {
	body := models.Credentials{Email: email, Password: password}

	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/trading/auth/login", body, false, &resp); err != nil {
		return nil, err
	}
	return c.storeAuth(&resp)
}

func (c *HTTPClient) Signup(ctx context.Context, name, email, password string) (*models.AuthData, error) {
	body := models.SignupRequest{Name: name, Email: email, Password: password}

	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/trading/auth/signup", body, false, &resp); err != nil {
		return nil, err
	}
	return c.storeAuth(&resp)
}

func (c *HTTPClient) storeAuth(resp *models.AuthResponse) (*models.AuthData, error) {
	if resp.Data == nil || resp.Data.Token == "" {
		return nil, fmt.Errorf("backend: auth response without token: %s", resp.Message)
	}
	if err := c.tokens.SetToken(resp.Data.Token); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}
	c.logger.WithField("user", resp.Data.User.Email).Info("Authenticated with trading backend")
	return resp.Data, nil
}

func (c *HTTPClient) ValidateToken(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/auth/validate", nil, true, nil)
}

func (c *HTTPClient) GetInstruments(ctx context.Context) ([]models.Instrument, error) {
	var resp models.InstrumentList
	if err := c.do(ctx, http.MethodGet, "/api/market/instruments", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Coins, nil
}

func (c *HTTPClient) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderReceipt, error) {
	var resp models.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) GetBalance(ctx context.Context) (*models.WalletBalance, error) {
	var resp models.WalletResponse
	if err := c.do(ctx, http.MethodGet, "/api/wallet/balance", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) UpdateBalance(ctx context.Context, op models.OperationType, amount float64) (*models.WalletInfo, error) {
	body := models.WalletOperation{Operation: op, Amount: amount}

	var resp models.WalletOperationResponse
	if err := c.do(ctx, http.MethodPost, "/api/wallet/operation", body, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) GetFavorites(ctx context.Context) ([]string, error) {
	var resp models.FavoritesResponse
	if err := c.do(ctx, http.MethodGet, "/api/favorites", nil, true, &resp); err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(resp.Data))
	for _, f := range resp.Data {
		symbols = append(symbols, f.Symbol)
	}
	return symbols, nil
}

func (c *HTTPClient) AddFavorite(ctx context.Context, symbol string) error {
	return c.do(ctx, http.MethodPost, "/api/favorites", models.Favorite{Symbol: symbol}, true, nil)
}

func (c *HTTPClient) RemoveFavorite(ctx context.Context, symbol string) error {
	path := "/api/favorites/" + url.PathEscape(symbol)
	return c.do(ctx, http.MethodDelete, path, nil, true, nil)
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses become an *APIError with the server's {error} message.
func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		if token == "" {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}

	c.logger.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"message": apiErr.Message,
	}).Warn("Backend request rejected")

	return apiErr
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/time/rate"

	"pcbuilder/internal/config"
	"pcbuilder/internal/logger"
	"pcbuilder/internal/models"
)

const networkErrorMessage = "네트워크 오류가 발생했습니다. 인터넷 연결을 확인해주세요."

// DefaultEstimateTitle is used when a saved estimate carries no title.
const DefaultEstimateTitle = "AI 추천 견적"

// Client translates the storefront's logical operations into HTTP calls
// against the backend. A cookie jar carries the httponly session cookie
// across calls; a rate limiter paces outbound requests.
type Client struct {
	baseURL   string
	apiKey    string
	endpoints config.Endpoints
	client    *http.Client
	limiter   *rate.Limiter
}

func New(cfg *config.Config) *Client {
	// cookiejar.New never fails with nil options.
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		endpoints: cfg.Endpoints,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

func statusMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "인증이 필요합니다. 다시 로그인해주세요."
	case http.StatusForbidden:
		return "접근 권한이 없습니다."
	case http.StatusNotFound:
		return "요청한 리소스를 찾을 수 없습니다."
	case http.StatusInternalServerError:
		return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	default:
		return networkErrorMessage
	}
}

func transportFailure(err error) Result {
	return Result{Success: false, Err: err.Error(), Message: networkErrorMessage}
}

func (c *Client) request(ctx context.Context, method, path string, body interface{}) Result {
	if err := c.limiter.Wait(ctx); err != nil {
		return transportFailure(err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return transportFailure(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return transportFailure(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("request failed", "method", method, "path", path, "error", err)
		return transportFailure(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var data interface{}
	if len(raw) > 0 {
		// A non-JSON body is tolerated; the result keeps its status.
		if err := json.Unmarshal(raw, &data); err != nil {
			data = nil
		}
	}

	res := Result{
		Success: resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:  resp.StatusCode,
		Data:    data,
	}
	if msg := res.DataMessage(); msg != "" {
		res.Message = msg
	} else if !res.Success {
		res.Message = statusMessage(resp.StatusCode)
	}
	return res
}

// Login posts credentials. A 2xx answer only means transport success;
// callers must inspect the nested business success flag.
func (c *Client) Login(ctx context.Context, username, password string) Result {
	return c.request(ctx, http.MethodPost, c.endpoints.Login, map[string]string{
		"username": username,
		"password": password,
	})
}

// Register creates an account; same dual-layer success semantics as Login.
func (c *Client) Register(ctx context.Context, name, username, password string) Result {
	return c.request(ctx, http.MethodPost, c.endpoints.Register, map[string]string{
		"name":     name,
		"username": username,
		"password": password,
	})
}

// CheckAuth asks the backend whether the session cookie is still valid.
func (c *Client) CheckAuth(ctx context.Context) Result {
	return c.request(ctx, http.MethodGet, c.endpoints.AuthCheck, nil)
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) Result {
	return c.request(ctx, http.MethodPost, c.endpoints.Logout, nil)
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	SessionID string     `json:"session_id"`
	Messages  []chatTurn `json:"messages"`
}

// SendChatMessage posts one user turn. When the primary chat endpoint is
// missing (404) or rejects the method (405), the call is retried exactly
// once against the legacy path; any other failure is returned as is.
func (c *Client) SendChatMessage(ctx context.Context, message, sessionID string) Result {
	body := chatRequest{
		SessionID: sessionID,
		Messages:  []chatTurn{{Role: "user", Content: message}},
	}
	res := c.request(ctx, http.MethodPost, c.endpoints.Chat, body)
	if !res.Success && (res.Status == http.StatusNotFound || res.Status == http.StatusMethodNotAllowed) {
		logger.Info("chat endpoint unavailable, retrying legacy path",
			"status", res.Status,
			"path", c.endpoints.LegacyChat)
		res = c.request(ctx, http.MethodPost, c.endpoints.LegacyChat, body)
	}
	return res
}

// Requirements describes an estimate request originating from the search
// box rather than the chat input.
type Requirements struct {
	Query string `json:"query"`
}

// RequestEstimate is an alias over SendChatMessage.
func (c *Client) RequestEstimate(ctx context.Context, req Requirements, sessionID string) Result {
	return c.SendChatMessage(ctx, req.Query, sessionID)
}

// GetEstimateList fetches the caller's saved estimates.
func (c *Client) GetEstimateList(ctx context.Context) Result {
	return c.request(ctx, http.MethodGet, c.endpoints.Estimates, nil)
}

// GetAllEstimates fetches the shared estimate gallery.
func (c *Client) GetAllEstimates(ctx context.Context) Result {
	return c.request(ctx, http.MethodGet, c.endpoints.Gallery, nil)
}

// SaveEstimate persists an estimate. The backend expects title and
// totalPrice at the top level, so they are lifted out of the estimate
// with defaults applied.
func (c *Client) SaveEstimate(ctx context.Context, est *models.Estimate, sessionID string) Result {
	title := DefaultEstimateTitle
	var total int64
	if est != nil {
		if est.Title != "" {
			title = est.Title
		}
		total = int64(math.Round(est.TotalPrice))
	}
	payload := map[string]interface{}{
		"session_id": sessionID,
		"title":      title,
		"totalPrice": total,
		"estimate":   est,
	}
	return c.request(ctx, http.MethodPost, c.endpoints.Estimates, payload)
}

// DeleteEstimate removes a saved estimate by id.
func (c *Client) DeleteEstimate(ctx context.Context, id string) Result {
	return c.request(ctx, http.MethodDelete, c.endpoints.Estimates+"/"+id, nil)
}

package supabase

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/riskibarqy/prissleague/internal/platform/resilience"
	"github.com/riskibarqy/prissleague/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	adminUsersPath  = "/auth/v1/admin/users"
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 512
)

var errAuthTransient = crerr.New("auth admin transient failure")

// Discord snowflakes overflow float64, so numbers stay textual.
var decoder = sonic.Config{UseNumber: true}.Froze()

type AuthAdminConfig struct {
	BaseURL        string
	ServiceRoleKey string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// AuthAdminClient lists accounts through the Supabase auth admin API.
type AuthAdminClient struct {
	client  *fasthttp.Client
	baseURL string
	key     string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

func NewAuthAdminClient(cfg AuthAdminConfig) (*AuthAdminClient, error) {
	baseURL, err := validateBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid SUPABASE_URL")
	}
	key := strings.TrimSpace(cfg.ServiceRoleKey)
	if key == "" {
		return nil, crerr.New("service role key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	c := &AuthAdminClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		baseURL: baseURL,
		key:     key,
		timeout: timeout,
		logger:  logger.Named("supabase"),
	}
	if cfg.CircuitBreaker.Enabled {
		c.breaker = resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	}
	return c, nil
}

type listUsersResponse struct {
	Users []authUser `json:"users"`
}

type authUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (c *AuthAdminClient) ListUsers(ctx context.Context, page, perPage int) ([]usecase.ExternalAuthUser, error) {
	if page < 1 || perPage < 1 {
		return nil, crerr.Newf("invalid pagination page=%d per_page=%d", page, perPage)
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "auth admin circuit breaker rejected request", "page", page, "state", c.breaker.State())
			return nil, crerr.Wrap(err, "auth admin api is temporarily unavailable")
		}
	}

	users, err := c.listUsers(ctx, page, perPage)
	c.recordCircuitResult(err)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (c *AuthAdminClient) recordCircuitResult(err error) {
	if c.breaker == nil {
		return
	}
	if err != nil && crerr.Is(err, errAuthTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func (c *AuthAdminClient) listUsers(ctx context.Context, page, perPage int) ([]usecase.ExternalAuthUser, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	endpoint := c.baseURL + adminUsersPath + "?" + query.Encode()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "list auth users page=%d", page), errAuthTransient)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK {
		body := strings.TrimSpace(string(resp.Body()))
		if len(body) > maxErrorBodyLen {
			body = body[:maxErrorBodyLen]
		}
		err := crerr.Newf("list auth users page=%d status=%d body=%s", page, status, body)
		if isRetryableStatus(status) {
			return nil, crerr.Mark(err, errAuthTransient)
		}
		return nil, err
	}

	var payload listUsersResponse
	if err := decoder.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, crerr.Wrapf(err, "decode auth users page=%d", page)
	}

	users := make([]usecase.ExternalAuthUser, 0, len(payload.Users))
	for _, u := range payload.Users {
		users = append(users, usecase.ExternalAuthUser{
			ID:          u.ID,
			Email:       strings.TrimSpace(u.Email),
			DiscordID:   metadataString(u.UserMetadata, "discord_id"),
			DisplayName: metadataString(u.UserMetadata, "display_name"),
		})
	}

	c.logger.DebugContext(ctx, "auth users page fetched", "page", page, "count", len(users))
	return users, nil
}

func metadataString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func validateBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

var _ usecase.AuthUserProvider = (*AuthAdminClient)(nil)

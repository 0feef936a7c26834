package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/exp/slog"

	"goqualtrics/internal/domain/session"
	"goqualtrics/internal/model"
)

// APIError - ответ платформы со статусом >= 400
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (%d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

type errorEnvelope struct {
	Meta struct {
		HTTPStatus string `json:"httpStatus"`
		Error      struct {
			ErrorMessage string `json:"errorMessage"`
			ErrorCode    string `json:"errorCode"`
		} `json:"error"`
	} `json:"meta"`
}

type httpClient struct {
	client    *http.Client
	download  *http.Client
	log       *slog.Logger
	userAgent string

	mu      sync.RWMutex
	session *session.Session
}

func NewHTTPClient(sess *session.Session, timeout time.Duration, log *slog.Logger) *httpClient {
	// спаны запросов пишутся в глобальный TracerProvider, по умолчанию noop
	transport := otelhttp.NewTransport(&http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		DisableKeepAlives:   false,
		MaxIdleConnsPerHost: 10,
	})

	return &httpClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		// скачивание архива ограничивается только контекстом
		download: &http.Client{
			Transport: transport,
		},
		log:       log.With("component", "http_client"),
		session:   sess,
		userAgent: "goqualtrics/1.0",
	}
}

// SetSession заменяет сессию (например после auth login)
func (h *httpClient) SetSession(s *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = s
}

func (h *httpClient) Session() *session.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

// Request выполняет JSON запрос и декодирует ответ в out
func (h *httpClient) Request(ctx context.Context, method, path string, body, out any) error {
	resp, err := h.doRequest(ctx, h.client, method, path, body)
	if err != nil {
		return err
	}
	return h.parseResponse(method, path, resp, out)
}

// Download передает тело ответа в w без буферизации в памяти
func (h *httpClient) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	resp, err := h.doRequest(ctx, h.download, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return 0, model.Remote("download "+path, apiError(resp.StatusCode, body))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, model.Remote("download "+path, fmt.Errorf("read body: %w", err))
	}
	h.log.Debug("download complete", "path", path, "bytes", n)
	return n, nil
}

func (h *httpClient) doRequest(ctx context.Context, client *http.Client, method, path string, body any) (*http.Response, error) {
	sess := h.Session()
	if sess == nil {
		return nil, model.Configuration("request", "token", session.ErrEmptyToken)
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, sess.Resolve(path), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set(session.TokenHeader, sess.Token)

	if sess.Verbose {
		h.log.Info("request", "method", method, "url", req.URL.String())
	} else {
		h.log.Debug("request", "method", method, "url", req.URL.String())
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}
		return nil, model.Remote(method+" "+path, err)
	}
	return resp, nil
}

func (h *httpClient) parseResponse(method, path string, resp *http.Response, out any) error {
	defer resp.Body.Close()
	op := method + " " + path

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Remote(op, fmt.Errorf("read body: %w", err))
	}

	h.log.Debug("response",
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	if resp.StatusCode >= 400 {
		return model.Remote(op, apiError(resp.StatusCode, body))
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return model.Remote(op, fmt.Errorf("malformed JSON: %w", err))
		}
	}
	return nil
}

func apiError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Meta.Error.ErrorMessage != "" {
		e.Message = env.Meta.Error.ErrorMessage
		e.Code = env.Meta.Error.ErrorCode
		return e
	}
	e.Message = strings.TrimSpace(string(body))
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

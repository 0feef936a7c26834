package session

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"goqualtrics/internal/model"
)

// TokenHeader - заголовок аутентификации платформы
const TokenHeader = "X-API-TOKEN"

const DefaultSettleDelay = time.Second

var (
	ErrEmptyToken   = errors.New("api token is empty")
	ErrEmptyBaseURL = errors.New("base url is empty")
	ErrBadBaseURL   = errors.New("base url must be absolute (https://<datacenter>.qualtrics.com/API/v3)")
)

// Session - единственный контекст аутентификации процесса.
// Передается явно всем компонентам, глобального состояния нет.
type Session struct {
	BaseURL     string
	Token       string
	SettleDelay time.Duration
	Verbose     bool
}

// New проверяет параметры и создает сессию
func New(baseURL, token string, settle time.Duration, verbose bool) (*Session, error) {
	s := &Session{
		BaseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:       strings.TrimSpace(token),
		SettleDelay: settle,
		Verbose:     verbose,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Validate() error {
	if s.BaseURL == "" {
		return model.Configuration("session", "base_url", ErrEmptyBaseURL)
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return model.Configuration("session", "base_url", ErrBadBaseURL)
	}
	if s.Token == "" {
		return model.Configuration("session", "token", ErrEmptyToken)
	}
	if s.SettleDelay < 0 {
		s.SettleDelay = 0
	}
	return nil
}

// Resolve превращает путь API в абсолютный URL.
// Абсолютные URL (nextPage от сервера) возвращаются без изменений.
func (s *Session) Resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.BaseURL + path
}

// WithToken возвращает копию сессии с другим токеном
func (s *Session) WithToken(token string) (*Session, error) {
	cp := *s
	cp.Token = strings.TrimSpace(token)
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return &cp, nil
}

package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// PageSize - шаг смещения, совпадает с размером страницы сервиса
const PageSize = 100

// Fetcher - примитив запроса коллаборатора (HTTP клиент)
type Fetcher interface {
	Request(ctx context.Context, method, path string, body, out any) error
}

// Cursor указывает на следующую страницу: смещение или абсолютный URL.
type Cursor struct {
	Offset int
	URL    string
}

type page struct {
	Result struct {
		Elements []json.RawMessage `json:"elements"`
		NextPage json.RawMessage   `json:"nextPage"`
	} `json:"result"`
}

// Paginator обходит постраничные коллекции
type Paginator struct {
	fetcher Fetcher
	settle  time.Duration
	log     *slog.Logger
}

func New(fetcher Fetcher, settle time.Duration, log *slog.Logger) *Paginator {
	return &Paginator{
		fetcher: fetcher,
		settle:  settle,
		log:     log.With("component", "paginator"),
	}
}

// Iterate возвращает ленивый итератор по endpoint начиная с cursor.
// Итератор одноразовый: после окончания или ошибки он не перезапускается.
func (p *Paginator) Iterate(endpoint string, start *Cursor) *Iterator {
	it := &Iterator{
		p:        p,
		endpoint: endpoint,
	}
	if start != nil {
		it.cursor = *start
	}
	return it
}

// Iterator - ленивая последовательность сырых элементов
type Iterator struct {
	p        *Paginator
	endpoint string
	cursor   Cursor
	buf      []json.RawMessage
	cur      json.RawMessage
	pages    int
	last     bool
	err      error
}

// Next переходит к следующему элементу, запрашивая страницы по мере необходимости.
func (it *Iterator) Next(ctx context.Context) bool {
	for len(it.buf) == 0 {
		if it.last || it.err != nil {
			it.cur = nil
			return false
		}
		if err := it.fetch(ctx); err != nil {
			it.err = err
			it.cur = nil
			it.p.log.Warn("pagination aborted, returning partial result",
				"endpoint", it.endpoint,
				"pages", it.pages,
				"error", err,
			)
			return false
		}
	}
	it.cur = it.buf[0]
	it.buf = it.buf[1:]
	return true
}

// Element возвращает текущий элемент
func (it *Iterator) Element() json.RawMessage {
	return it.cur
}

// Err возвращает ошибку, прервавшую обход
func (it *Iterator) Err() error {
	return it.err
}

// Pages - количество полученных страниц
func (it *Iterator) Pages() int {
	return it.pages
}

func (it *Iterator) fetch(ctx context.Context) error {
	if err := settle(ctx, it.p.settle); err != nil {
		return err
	}

	target := it.target()
	it.p.log.Debug("fetching page", "url", target, "page", it.pages+1)

	var pg page
	if err := it.p.fetcher.Request(ctx, http.MethodGet, target, nil, &pg); err != nil {
		return fmt.Errorf("fetch page %d of %s: %w", it.pages+1, it.endpoint, err)
	}
	it.pages++
	it.buf = append(it.buf, pg.Result.Elements...)

	next, ok := nextCursor(it.cursor, pg.Result.NextPage)
	if !ok {
		it.last = true
		return nil
	}
	it.cursor = next
	return nil
}

func (it *Iterator) target() string {
	if it.cursor.URL != "" {
		return it.cursor.URL
	}
	if it.cursor.Offset <= 0 {
		return it.endpoint
	}
	u, err := url.Parse(it.endpoint)
	if err != nil {
		sep := "?"
		if strings.Contains(it.endpoint, "?") {
			sep = "&"
		}
		return it.endpoint + sep + "offset=" + strconv.Itoa(it.cursor.Offset)
	}
	q := u.Query()
	q.Set("offset", strconv.Itoa(it.cursor.Offset))
	u.RawQuery = q.Encode()
	return u.String()
}

// nextCursor разбирает поле nextPage. Абсолютный URL используется как есть,
// любое другое непустое значение означает сдвиг смещения на PageSize.
func nextCursor(cur Cursor, raw json.RawMessage) (Cursor, bool) {
	v := strings.TrimSpace(string(raw))
	if v == "" || v == "null" || v == `""` || v == "false" || v == "0" {
		return Cursor{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return Cursor{}, false
		}
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return Cursor{URL: s}, true
		}
	}
	return Cursor{Offset: cur.Offset + PageSize}, true
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

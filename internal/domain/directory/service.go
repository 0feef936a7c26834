package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"goqualtrics/internal/domain/pagination"
	"goqualtrics/internal/model"

	"golang.org/x/exp/slog"
)

var (
	ErrSurveyNotFound = errors.New("survey not found")
	ErrNoLookupKey    = errors.New("either id or name is required")
)

// Service - списки сущностей организации поверх постраничного обхода
type Service struct {
	fetcher pagination.Fetcher
	pager   *pagination.Paginator
	log     *slog.Logger
}

func NewService(fetcher pagination.Fetcher, pager *pagination.Paginator, log *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		pager:   pager,
		log:     log.With("component", "directory"),
	}
}

type envelope[T any] struct {
	Result T `json:"result"`
}

func (s *Service) get(ctx context.Context, path string, out any) error {
	if err := s.fetcher.Request(ctx, http.MethodGet, path, nil, out); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// list собирает коллекцию. Обрыв обхода не фатален: возвращается
// собранная часть, кроме случая отмены контекста.
func list[T any](ctx context.Context, s *Service, endpoint string) ([]T, error) {
	it := s.pager.Iterate(endpoint, nil)
	items, err := pagination.Collect[T](ctx, it)
	if err != nil {
		if ctx.Err() != nil {
			return items, ctx.Err()
		}
		if it.Err() == nil {
			s.log.Warn("listing incomplete", "endpoint", endpoint, "items", len(items), "error", err)
		}
	}
	return items, nil
}

// WhoAmI возвращает пользователя, которому принадлежит токен
func (s *Service) WhoAmI(ctx context.Context) (*User, error) {
	var resp envelope[whoAmI]
	if err := s.get(ctx, "/whoami", &resp); err != nil {
		return nil, err
	}
	u := resp.Result.User
	if u.ID == "" {
		u.ID = resp.Result.UserID
	}
	return &u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, model.Configuration("directory.user", "id", ErrNoLookupKey)
	}
	var resp envelope[User]
	if err := s.get(ctx, "/users/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

func (s *Service) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	if id == "" {
		return nil, model.Configuration("directory.organization", "id", ErrNoLookupKey)
	}
	var resp envelope[Organization]
	if err := s.get(ctx, "/organizations/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

func (s *Service) GetDivision(ctx context.Context, id string) (*Division, error) {
	if id == "" {
		return nil, model.Configuration("directory.division", "id", ErrNoLookupKey)
	}
	var resp envelope[Division]
	if err := s.get(ctx, "/divisions/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return list[User](ctx, s, "/users")
}

func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	return list[Group](ctx, s, "/groups")
}

func (s *Service) ListMailingLists(ctx context.Context) ([]MailingList, error) {
	return list[MailingList](ctx, s, "/mailinglists")
}

func (s *Service) ListContacts(ctx context.Context, mailingListID string) ([]Contact, error) {
	if mailingListID == "" {
		return nil, model.Configuration("directory.contacts", "mailing_list_id", ErrNoLookupKey)
	}
	return list[Contact](ctx, s, "/mailinglists/"+url.PathEscape(mailingListID)+"/contacts")
}

func (s *Service) ListLibraries(ctx context.Context) ([]Library, error) {
	return list[Library](ctx, s, "/libraries")
}

func (s *Service) ListLibrarySurveys(ctx context.Context, libraryID string) ([]Survey, error) {
	if libraryID == "" {
		return nil, model.Configuration("directory.library_surveys", "library_id", ErrNoLookupKey)
	}
	return list[Survey](ctx, s, "/libraries/"+url.PathEscape(libraryID)+"/survey/surveys")
}

func (s *Service) ListSurveys(ctx context.Context) ([]Survey, error) {
	return list[Survey](ctx, s, "/surveys")
}

// FindSurvey ищет опрос по id, а если id пуст - по имени
func (s *Service) FindSurvey(ctx context.Context, id, name string) (*Survey, error) {
	if id == "" && name == "" {
		return nil, model.Configuration("directory.find_survey", "id", ErrNoLookupKey)
	}
	surveys, err := s.ListSurveys(ctx)
	if err != nil {
		return nil, err
	}
	for i := range surveys {
		if id != "" && surveys[i].ID == id {
			return &surveys[i], nil
		}
		if id == "" && surveys[i].Name == name {
			return &surveys[i], nil
		}
	}
	key := id
	if key == "" {
		key = name
	}
	return nil, fmt.Errorf("%w: %s", ErrSurveyNotFound, key)
}

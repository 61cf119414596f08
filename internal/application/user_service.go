package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
)

type UserService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Notifier     *Notifier

	// Revoke invalidates every token issued to a user so far.
	Revoke func(ctx context.Context, userID string) error
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, notifier *Notifier) *UserService {
	s := &UserService{
		Repo:         repo,
		JWT:          jwt,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Notifier:     notifier,
	}
	s.Revoke = func(ctx context.Context, userID string) error {
		return helpers.RevokeUser(ctx, s.Redis, userID, s.JWT.TTL)
	}
	return s
}

// AuthResult is a user together with a freshly issued bearer token.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileInput is what a user may change on their own record. Password
// resets go through AdminUpdate.
type ProfileInput struct {
	Name  string
	Email string
}

type AdminUpdateInput struct {
	Name     string
	Email    string
	Password string
	IsAdmin  *bool
	IsSeller *bool
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.GenerateAccessToken(helpers.TokenSubject{
		UserID:   u.ID,
		IsAdmin:  u.IsAdmin,
		IsSeller: u.IsSeller,
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, err
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// SignIn answers unknown email and wrong password identically.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: strings.TrimSpace(in.Name), Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		// the unique index catches registrations racing past the pre-check
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	_ = s.indexUser(ctx, u)
	s.Notifier.Welcome(ctx, u)
	return s.issue(u)
}

// UpdateProfile changes the caller's own record; empty fields are left as they are.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*AuthResult, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" {
		u.Email = email
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

// Get returns a user to the user themselves or to an admin.
func (s *UserService) Get(ctx context.Context, caller Identity, id string) (*entity.User, error) {
	if !caller.IsAdmin && caller.UserID != id {
		return nil, ErrForbidden
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *UserService) AdminUpdate(ctx context.Context, id string, in AdminUpdateInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" {
		u.Email = email
	}
	// tokens carry the role flags, so any change to them or to the
	// password must end the sessions issued before it
	revoke := false
	if in.Password != "" {
		if u.Password, err = helpers.HashPassword(in.Password); err != nil {
			return nil, err
		}
		revoke = true
	}
	if in.IsAdmin != nil && *in.IsAdmin != u.IsAdmin {
		u.IsAdmin = *in.IsAdmin
		revoke = true
	}
	if in.IsSeller != nil && *in.IsSeller != u.IsSeller {
		u.IsSeller = *in.IsSeller
		revoke = true
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	if revoke {
		s.revoke(ctx, u.ID)
	}
	return u, nil
}

func (s *UserService) save(ctx context.Context, u *entity.User) error {
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return ErrEmailTaken
		}
		return err
	}
	_ = s.indexUser(ctx, u)
	return nil
}

// Delete removes the user and revokes every token issued to them so far.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.revoke(ctx, id)
	s.unindexUser(ctx, id)
	return nil
}

func (s *UserService) revoke(ctx context.Context, id string) {
	if s.Revoke == nil {
		return
	}
	if err := s.Revoke(ctx, id); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("revoke tokens failed")
	}
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"is_admin":   u.IsAdmin,
		"is_seller":  u.IsSeller,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *UserService) unindexUser(ctx context.Context, id string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id}.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, &SearchError{Status: res.StatusCode, Body: res.String()}
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

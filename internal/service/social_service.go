package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/pkg/jwt"
	"bizdesk-api/pkg/oauth"
)

var ErrSocialDisabled = errors.New("social login is not configured")

// IDTokenVerifier checks a Google ID token posted by a mobile or one-tap client.
type IDTokenVerifier interface {
	Verify(idToken string) (*oauth.Profile, error)
}

type SocialService interface {
	AuthURL(provider, state string) (string, error)
	Callback(ctx context.Context, provider, code string) (*SocialLogin, error)
	LoginWithGoogleIDToken(ctx context.Context, idToken string) (*SocialLogin, error)
	Resolve(ctx context.Context, profile *oauth.Profile) (*SocialLogin, error)
	Authenticate(token string) (*model.Customer, error)
}

type SocialLogin struct {
	Token    string          `json:"token"`
	Customer *model.Customer `json:"customer"`
	Created  bool            `json:"created"`
}

type socialService struct {
	db             *gorm.DB
	customers      repository.CustomerRepository
	providers      oauth.Registry
	google         IDTokenVerifier
	tokens         *jwt.Manager
	defaultCompany uuid.UUID
	notifier       Notifier
	logger         *zap.Logger
}

func NewSocialService(db *gorm.DB, customers repository.CustomerRepository, providers oauth.Registry, google IDTokenVerifier,
	tokens *jwt.Manager, defaultCompany uuid.UUID, notifier Notifier, logger *zap.Logger) SocialService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &socialService{
		db:             db,
		customers:      customers,
		providers:      providers,
		google:         google,
		tokens:         tokens,
		defaultCompany: defaultCompany,
		notifier:       notifier,
		logger:         logger,
	}
}

func (s *socialService) AuthURL(provider, state string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

func (s *socialService) Callback(ctx context.Context, provider, code string) (*SocialLogin, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return nil, err
	}
	profile, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, profile)
}

func (s *socialService) LoginWithGoogleIDToken(ctx context.Context, idToken string) (*SocialLogin, error) {
	if s.google == nil {
		return nil, ErrSocialDisabled
	}
	profile, err := s.google.Verify(idToken)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, profile)
}

// Resolve maps a provider profile to a customer of the default company.
// Email is the only correlation key, so every provider lands on the same account.
func (s *socialService) Resolve(ctx context.Context, profile *oauth.Profile) (*SocialLogin, error) {
	if s.defaultCompany == uuid.Nil {
		return nil, ErrSocialDisabled
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return nil, oauth.ErrNoEmail
	}

	login := &SocialLogin{}
	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.FindByEmail(tx, s.defaultCompany, email)
		if err == nil {
			if profile.Avatar != "" {
				customer.Photo = profile.Avatar
			}
			customer.EmailVerifiedAt = &now
			customer.Provider = profile.Provider
			login.Customer = customer
			return s.customers.Save(tx, customer)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Nobody knows this password; the account signs in through providers only
		placeholder, err := model.HashPassword(uuid.NewString() + uuid.NewString())
		if err != nil {
			return err
		}
		name := profile.Name
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		customer = &model.Customer{
			Name:            name,
			Email:           email,
			Photo:           profile.Avatar,
			Password:        placeholder,
			Provider:        profile.Provider,
			EmailVerifiedAt: &now,
		}
		customer.CompanyID = s.defaultCompany
		login.Customer = customer
		login.Created = true
		return s.customers.Create(tx, customer)
	})
	if err != nil {
		s.logger.Error("Failed to resolve social login", zap.String("provider", profile.Provider), zap.Error(err))
		return nil, &PersistenceError{Op: "sign in", Err: err}
	}

	login.Token, err = s.tokens.GenerateToken(jwt.Subject{
		ID:        login.Customer.ID,
		CompanyID: login.Customer.CompanyID,
		Kind:      jwt.KindCustomer,
		Email:     login.Customer.Email,
		Name:      login.Customer.Name,
	})
	if err != nil {
		return nil, &PersistenceError{Op: "generate token", Err: err}
	}

	action := "updated"
	if login.Created {
		action = "created"
	}
	s.notifier.Notify(login.Customer.CompanyID, Event{
		Type: "resource_changed", Resource: "customers", Action: action, ID: login.Customer.ID,
	})
	return login, nil
}

// Authenticate resolves a customer bearer token.
func (s *socialService) Authenticate(token string) (*model.Customer, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != jwt.KindCustomer {
		return nil, jwt.ErrInvalidToken
	}
	customer, err := s.customers.FindByID(claims.CompanyID, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return customer, nil
}

// Package oauth talks to the external identity providers used for customer social login.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"bizdesk-api/internal/config"
)

var (
	ErrUnknownProvider = errors.New("unknown social provider")
	ErrNoEmail         = errors.New("provider did not return an email address")
)

// Profile is what every provider returns on a successful callback.
type Profile struct {
	Provider string
	ID       string
	Name     string
	Email    string
	Avatar   string
}

// Provider exchanges an authorization code for the user's profile.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

type provider struct {
	name       string
	config     *oauth2.Config
	profileURL string
	decode     func(client *http.Client, body []byte) (*Profile, error)
}

func (p *provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s code exchange: %w", p.name, err)
	}

	client := p.config.Client(ctx, token)
	body, err := getJSON(client, p.profileURL)
	if err != nil {
		return nil, fmt.Errorf("%s profile: %w", p.name, err)
	}

	profile, err := p.decode(client, body)
	if err != nil {
		return nil, err
	}
	profile.Provider = p.name
	if profile.Email == "" {
		return nil, ErrNoEmail
	}
	return profile, nil
}

// Registry holds the providers that have credentials configured.
type Registry map[string]Provider

func (r Registry) Get(name string) (Provider, error) {
	p, ok := r[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

// NewRegistry wires Google, Facebook and GitHub from configuration.
// Providers without a client id are left out.
func NewRegistry(cfg config.SocialConfig) Registry {
	reg := Registry{}
	callback := func(name string) string { return cfg.CallbackBaseURL + "/" + name + "/callback" }

	if cfg.Google.ClientID != "" {
		reg["google"] = &provider{
			name: "google",
			config: &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				Endpoint:     google.Endpoint,
				RedirectURL:  callback("google"),
				Scopes:       []string{"openid", "email", "profile"},
			},
			profileURL: "https://www.googleapis.com/oauth2/v3/userinfo",
			decode:     decodeGoogle,
		}
	}
	if cfg.Facebook.ClientID != "" {
		reg["facebook"] = &provider{
			name: "facebook",
			config: &oauth2.Config{
				ClientID:     cfg.Facebook.ClientID,
				ClientSecret: cfg.Facebook.ClientSecret,
				Endpoint:     facebook.Endpoint,
				RedirectURL:  callback("facebook"),
				Scopes:       []string{"email", "public_profile"},
			},
			profileURL: "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)",
			decode:     decodeFacebook,
		}
	}
	if cfg.GitHub.ClientID != "" {
		reg["github"] = &provider{
			name: "github",
			config: &oauth2.Config{
				ClientID:     cfg.GitHub.ClientID,
				ClientSecret: cfg.GitHub.ClientSecret,
				Endpoint:     github.Endpoint,
				RedirectURL:  callback("github"),
				Scopes:       []string{"read:user", "user:email"},
			},
			profileURL: "https://api.github.com/user",
			decode:     decodeGitHub,
		}
	}
	return reg
}

func decodeGoogle(_ *http.Client, body []byte) (*Profile, error) {
	var in struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("decode google profile: %w", err)
	}
	return &Profile{ID: in.Sub, Name: in.Name, Email: in.Email, Avatar: in.Picture}, nil
}

func decodeFacebook(_ *http.Client, body []byte) (*Profile, error) {
	var in struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("decode facebook profile: %w", err)
	}
	return &Profile{ID: in.ID, Name: in.Name, Email: in.Email, Avatar: in.Picture.Data.URL}, nil
}

// GitHub hides private emails from /user; the primary verified one comes from /user/emails.
func decodeGitHub(client *http.Client, body []byte) (*Profile, error) {
	var in struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("decode github profile: %w", err)
	}
	p := &Profile{ID: strconv.FormatInt(in.ID, 10), Name: in.Name, Email: in.Email, Avatar: in.AvatarURL}
	if p.Name == "" {
		p.Name = in.Login
	}
	if p.Email != "" || client == nil {
		return p, nil
	}

	raw, err := getJSON(client, "https://api.github.com/user/emails")
	if err != nil {
		return nil, fmt.Errorf("github emails: %w", err)
	}
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(raw, &emails); err != nil {
		return nil, fmt.Errorf("decode github emails: %w", err)
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			p.Email = e.Email
			break
		}
	}
	return p, nil
}

func getJSON(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"cameo-backend/internal/account"
	sharedauth "cameo-backend/internal/shared/auth"
	"cameo-backend/internal/shared/server/respond"
	"cameo-backend/internal/shared/telemetry"
	"cameo-backend/internal/users"
)

const (
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	subjectPrefix      = "google:"
	guestPrefix        = "guest:"
	stateTTL           = 5 * time.Minute
)

// UserUpserter persists the signed-in identity so campaigns and credits have a stable owner.
type UserUpserter interface {
	UpsertFromAuth(ctx context.Context, user users.User) error
}

// GuestClaimer moves a guest's cameos to the account that just signed in.
type GuestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (account.ClaimResult, error)
}

// GoogleService runs the Google OAuth code flow and issues app JWTs. A guest
// who starts sign-in with ?guestId= has their data claimed in the callback.
type GoogleService struct {
	// States defaults to process memory. Use the Redis store when more than
	// one instance serves auth routes.
	States StateStore
	// Claimer is optional; without it guest data stays with the guest id.
	Claimer GuestClaimer

	oauthConfig *oauth2.Config
	uiRedirect  string
	users       UserUpserter
	userInfoURL string
}

// NewGoogleService builds a GoogleService. userSvc may be nil.
func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, userSvc UserUpserter) *GoogleService {
	return &GoogleService{
		States: NewMemoryStateStore(),
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect:  uiRedirect,
		users:       userSvc,
		userInfoURL: defaultUserInfoURL,
	}
}

// Configured reports whether client credentials and a callback URL are set.
func (s *GoogleService) Configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.Configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	var login pendingLogin
	if guestID := strings.TrimSpace(c.Query("guestId")); guestID != "" {
		if _, err := uuid.Parse(guestID); err != nil {
			respond.BadRequest(c, "invalid guest id", []map[string]string{{"field": "guestId", "issue": "invalid"}})
			return
		}
		login.GuestID = guestID
	}

	state := uuid.NewString()
	if err := s.States.Put(c.Request.Context(), state, login, stateTTL); err != nil {
		telemetry.Error("auth.state_put_failed", map[string]any{"error": err.Error()})
		respond.Internal(c)
		return
	}
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	ctx := c.Request.Context()
	login, ok, err := s.States.Consume(ctx, state)
	if err != nil {
		telemetry.Error("auth.state_consume_failed", map[string]any{"error": err.Error()})
		respond.Internal(c)
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}
	info, err := s.fetchUserInfo(ctx, token)
	if err != nil || info.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	userID := subjectPrefix + info.Sub
	if s.users != nil {
		err := s.users.UpsertFromAuth(ctx, users.User{
			ID:         userID,
			Email:      info.Email,
			FullName:   info.Name,
			GivenName:  info.GivenName,
			FamilyName: info.FamilyName,
			PictureURL: info.Picture,
		})
		if err != nil {
			telemetry.Error("auth.user_upsert_failed", map[string]any{"user_id": userID, "error": err.Error()})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save user", nil)
			return
		}
	}

	jwt, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:     userID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	params := url.Values{"token": {jwt}}
	if s.claimGuest(ctx, login.GuestID, userID) {
		params.Set("guestClaimed", "true")
	}
	redirectURL, err := withQuery(s.uiRedirect, params)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// claimGuest never fails the sign-in; the client can retry via POST /account/claim-guest.
func (s *GoogleService) claimGuest(ctx context.Context, guestID, userID string) bool {
	if guestID == "" || s.Claimer == nil {
		return false
	}
	res, err := s.Claimer.ClaimGuest(ctx, guestPrefix+guestID, userID)
	if err != nil {
		telemetry.Error("auth.guest_claim_failed", map[string]any{"user_id": userID, "error": err.Error()})
		return false
	}
	telemetry.Info("auth.guest_claimed", map[string]any{
		"user_id":     userID,
		"generations": res.MigratedGenerations,
		"campaigns":   res.MigratedCampaigns,
	})
	return true
}

type googleUserInfo struct {
	Sub        string `json:"sub"`
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := s.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	// v2 userinfo uses "id".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

func withQuery(rawURL string, params url.Values) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"yatube/config"
	"yatube/models"
	"yatube/repository"
	"yatube/utils"
)

const (
	tokenDuration = 7 * 24 * time.Hour
	stateTTL      = 10 * time.Minute
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthController handles registration, login, logout, and OAuth sign-in.
type AuthController struct {
	users *repository.UserRepository
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users *repository.UserRepository) *AuthController {
	return &AuthController{users: users}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account and returns a token so the user is signed in
// right away.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if !usernameRe.MatchString(username) {
		utils.Error(ctx, http.StatusBadRequest, 40011, "username must be 3-32 characters of letters, digits, dot, dash or underscore")
		return
	}
	if !emailRe.MatchString(email) {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid email address")
		return
	}
	if len(req.Password) < 8 {
		utils.Error(ctx, http.StatusBadRequest, 40013, "password must be at least 8 characters")
		return
	}

	taken, err := a.users.UsernameTaken(username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to check username")
		return
	}
	if taken {
		utils.Error(ctx, http.StatusConflict, 40910, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to hash password")
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Provider:     "local",
	}
	if err := a.users.Create(&user); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create user")
		return
	}

	a.respondWithToken(ctx, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid request payload")
		return
	}

	user, err := a.users.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusUnauthorized, 40120, "invalid username or password")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load user")
		return
	}

	if user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "invalid username or password")
		return
	}

	a.respondWithToken(ctx, user)
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusBadRequest, 40015, "missing bearer token")
		return
	}
	token := strings.TrimSpace(parts[1])

	expiresAt := time.Now().Add(tokenDuration)
	if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's account and profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	user, err := a.users.Get(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load user")
		return
	}

	profile, err := a.users.GetOrCreateProfile(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load profile")
		return
	}

	utils.Success(ctx, gin.H{"user": user, "profile": profile})
}

// OAuthRedirect starts the OAuth flow for the given provider. The state is
// single-use and expires after stateTTL.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	conf, ok := oauthConfig(ctx.Param("provider"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40404, "unknown oauth provider")
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, stateTTL)

	ctx.Redirect(http.StatusFound, conf.AuthCodeURL(state))
}

// OAuthCallback completes the OAuth flow: it validates the state, exchanges
// the code, fetches the remote identity, and signs the matched or newly
// created local user in.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := ctx.Param("provider")
	conf, ok := oauthConfig(provider)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40404, "unknown oauth provider")
		return
	}

	if !utils.ConsumeState(ctx.Query("state")) {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid or expired oauth state")
		return
	}

	code := ctx.Query("code")
	if code == "" {
		utils.Error(ctx, http.StatusBadRequest, 40017, "missing oauth code")
		return
	}

	token, err := conf.Exchange(ctx.Request.Context(), code)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50210, "oauth code exchange failed")
		return
	}

	identity, err := fetchOAuthIdentity(ctx.Request.Context(), conf, provider, token)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50211, "failed to fetch oauth identity")
		return
	}

	user, err := a.findOrCreateOAuthUser(provider, identity)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create user")
		return
	}

	a.respondWithToken(ctx, user)
}

type oauthIdentity struct {
	ID        string
	Login     string
	Email     string
	AvatarURL string
}

func (a *AuthController) findOrCreateOAuthUser(provider string, id oauthIdentity) (models.User, error) {
	var user models.User
	err := config.DB().Where("provider = ? AND provider_id = ?", provider, id.ID).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	username := sanitizeUsername(id.Login)
	if username == "" {
		username = provider + "-" + id.ID
	}
	for i := 0; ; i++ {
		candidate := username
		if i > 0 {
			candidate = fmt.Sprintf("%s%d", username, i)
		}
		taken, err := a.users.UsernameTaken(candidate)
		if err != nil {
			return models.User{}, err
		}
		if !taken {
			username = candidate
			break
		}
	}

	user = models.User{
		Username:   username,
		Email:      strings.ToLower(id.Email),
		Provider:   provider,
		ProviderID: id.ID,
		AvatarURL:  id.AvatarURL,
	}
	if err := a.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (a *AuthController) respondWithToken(ctx *gin.Context, user models.User) {
	token, err := utils.GenerateToken(user.ID, user.Username, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

func oauthConfig(provider string) (*oauth2.Config, bool) {
	cfg := config.Get()
	switch provider {
	case "github":
		return &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  cfg.OAuthRedirectBase + "/api/v1/auth/oauth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
		}, true
	case "google":
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  cfg.OAuthRedirectBase + "/api/v1/auth/oauth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
		}, true
	default:
		return nil, false
	}
}

func fetchOAuthIdentity(ctx context.Context, conf *oauth2.Config, provider string, token *oauth2.Token) (oauthIdentity, error) {
	client := conf.Client(ctx, token)

	switch provider {
	case "github":
		var payload struct {
			ID        int64  `json:"id"`
			Login     string `json:"login"`
			Email     string `json:"email"`
			AvatarURL string `json:"avatar_url"`
		}
		if err := fetchJSON(client, "https://api.github.com/user", &payload); err != nil {
			return oauthIdentity{}, err
		}
		return oauthIdentity{
			ID:        fmt.Sprintf("%d", payload.ID),
			Login:     payload.Login,
			Email:     payload.Email,
			AvatarURL: payload.AvatarURL,
		}, nil
	case "google":
		var payload struct {
			Sub     string `json:"sub"`
			Email   string `json:"email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
		}
		if err := fetchJSON(client, "https://www.googleapis.com/oauth2/v3/userinfo", &payload); err != nil {
			return oauthIdentity{}, err
		}
		login := payload.Email
		if at := strings.IndexByte(login, '@'); at > 0 {
			login = login[:at]
		}
		return oauthIdentity{
			ID:        payload.Sub,
			Login:     login,
			Email:     payload.Email,
			AvatarURL: payload.Picture,
		}, nil
	default:
		return oauthIdentity{}, errors.New("unknown oauth provider")
	}
}

func fetchJSON(client *http.Client, url string, out interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func sanitizeUsername(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 32 {
		s = s[:32]
	}
	if len(s) < 3 {
		return ""
	}
	return s
}

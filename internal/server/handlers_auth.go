package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockdeck/stockdeck/internal/models"
)

// signJWT creates a signed HS256 token for the user.
func signJWT(user *models.User, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.UserID,
		"username": user.Username,
		"email":    user.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// validateJWT parses and verifies a token, returning its claims.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// handleRegister creates a new account and returns a token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" {
		WriteError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	if len(req.Password) < 8 {
		WriteError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.app.Logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user := &models.User{
		UserID:       uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.app.UserStore.CreateUser(r.Context(), user); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			WriteError(w, http.StatusConflict, err.Error())
			return
		}
		s.app.Logger.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		WriteError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	token, err := signJWT(user, []byte(s.app.Config.Auth.JWTSecret), s.app.Config.Auth.GetTokenExpiry())
	if err != nil {
		s.app.Logger.Error().Err(err).Msg("Failed to sign token")
		WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	s.app.Logger.Info().Str("username", user.Username).Msg("User registered")
	WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// handleLogin authenticates by username (or email) and password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.app.UserStore.GetUserByUsername(r.Context(), req.Username)
	if err != nil && strings.Contains(req.Username, "@") {
		user, err = s.app.UserStore.GetUserByEmail(r.Context(), req.Username)
	}
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := signJWT(user, []byte(s.app.Config.Auth.JWTSecret), s.app.Config.Auth.GetTokenExpiry())
	if err != nil {
		s.app.Logger.Error().Err(err).Msg("Failed to sign token")
		WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	s.app.Logger.Info().Str("username", user.Username).Msg("User logged in")
	WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// handleValidate returns the authenticated user for the presented token.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := s.app.UserStore.GetUser(r.Context(), uc.UserID)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "user not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"user":  user,
	})
}

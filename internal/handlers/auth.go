package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/database"
	"github.com/taskloop/taskloop/internal/models"
	"github.com/taskloop/taskloop/internal/request"
	"github.com/taskloop/taskloop/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles signup, signin and identity echo requests
type AuthHandler struct {
	users  database.UserStore
	issuer *auth.Issuer
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users database.UserStore, issuer *auth.Issuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, logger: logger}
}

// RegisterPublicRoutes registers the unauthenticated auth routes.
func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/signup", h.Signup).Methods("POST")
	r.HandleFunc("/signin", h.Signin).Methods("POST")
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *AuthHandler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.Me).Methods("GET")
}

// SignupRequest represents a registration request
type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// SigninRequest represents a login request
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued credential and its subject.
type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup registers a new user and issues a token
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: "+validationErrors[0].Error())
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed_to_hash_password", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			respondJSONError(w, http.StatusConflict, "Conflict", "Email already registered")
			return
		}
		h.logger.Error("failed_to_create_user", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		return
	}

	token, err := h.issuer.Issue(user.ID.String(), user.Email)
	if err != nil {
		h.logger.Error("failed_to_issue_token", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusCreated, TokenResponse{Token: token, User: user})
}

// Signin verifies credentials and issues a token. Unknown email and wrong
// password produce the same response.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
			return
		}
		h.logger.Error("failed_to_load_user", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Sign-in failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		return
	}

	token, err := h.issuer.Issue(user.ID.String(), user.Email)
	if err != nil {
		h.logger.Error("failed_to_issue_token", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{Token: token, User: user})
}

// Me echoes the authenticated identity
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := request.IdentityFromContext(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing credentials")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"subject": identity.Subject,
		"email":   identity.Email,
	})
}

package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vitrin/rdx"
	"vitrin/store"
	"vitrin/utils"
)

type Handler struct {
	svc   *Service
	users store.UserRepository
}

func NewHandler(svc *Service, users store.UserRepository) *Handler {
	return &Handler{svc: svc, users: users}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email, password and name are required")
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			utils.RespondWithError(w, http.StatusConflict, "User already exists")
			return
		}
		log.Printf("Register error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, ok, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Login error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, err := generateAccessToken(u)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}

	if err := h.storeRefreshToken(r, u.UserID, refreshToken); err != nil {
		log.Printf("Failed to store refresh token: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := rdx.RdxHset("tokki", u.UserID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"token":        tokenString,
		"refreshToken": refreshToken,
		"user":         u,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	u, err := h.users.Get(r.Context(), userID)
	if err == nil {
		u.RefreshToken = ""
		u.RefreshExpiry = time.Time{}
		if err := h.users.Put(r.Context(), u); err != nil {
			log.Printf("Logout: failed to clear refresh token: %v", err)
		}
	}

	if err := rdx.RdxHdel("tokki", userID); err != nil {
		log.Printf("Redis token removal failed: %v", err)
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{"status": "logged_out"})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates the refresh token and issues a new access token.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unknown user")
		return
	}

	if u.RefreshToken == "" || u.RefreshToken != hashToken(req.RefreshToken) ||
		time.Now().After(u.RefreshExpiry) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	tokenString, err := generateAccessToken(u)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}
	if err := h.storeRefreshToken(r, u.UserID, refreshToken); err != nil {
		log.Printf("Failed to store refresh token: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"token":        tokenString,
		"refreshToken": refreshToken,
	})
}

// Me returns the authenticated user's sanitized record.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	u, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	utils.RespondWithData(w, http.StatusOK, u)
}

func (h *Handler) storeRefreshToken(r *http.Request, userID, refreshToken string) error {
	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		return err
	}
	u.RefreshToken = hashToken(refreshToken)
	u.RefreshExpiry = time.Now().Add(refreshTokenTTL)
	return h.users.Put(r.Context(), u)
}

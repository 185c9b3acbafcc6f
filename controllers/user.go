package controllers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"livwell/accounts"
	"livwell/cart"
	"livwell/middleware"
	"livwell/models"
	"livwell/session"
	"livwell/utils"
)

// UserController handles user-related requests
type UserController struct {
	Accounts    *accounts.Service
	Cart        *cart.Ledger
	Sessions    session.Store
	MergePolicy cart.MergePolicy
	Log         *logrus.Logger
}

// NewUserController creates a new UserController
func NewUserController(svc *accounts.Service, ledger *cart.Ledger, sessions session.Store, policy cart.MergePolicy, log *logrus.Logger) *UserController {
	return &UserController{
		Accounts:    svc,
		Cart:        ledger,
		Sessions:    sessions,
		MergePolicy: policy,
		Log:         log,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles user registration and signs the new user in
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	user, err := uc.Accounts.Signup(r.Context(), models.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	switch {
	case errors.Is(err, accounts.ErrEmailTaken):
		http.Error(w, "User already exists", http.StatusConflict)
		return
	case errors.Is(err, accounts.ErrMissingFields):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		uc.Log.WithError(err).Error("signup failed")
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		uc.Log.WithError(err).WithField("user_id", user.ID).Error("token after signup failed")
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	uc.startSession(r, user)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login checks the credentials and returns a token
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &creds); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	user, token, err := uc.Accounts.Login(r.Context(), creds.Email, creds.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		uc.Log.WithError(err).Error("login failed")
		http.Error(w, "Error logging in", http.StatusInternalServerError)
		return
	}

	uc.startSession(r, user)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// startSession stores the account snapshot for the browser session and
// applies the cart merge policy. Failures are logged; the login stands.
func (uc *UserController) startSession(r *http.Request, user models.User) {
	sid := middleware.SessionID(r.Context())
	if sid == "" {
		return
	}
	logger := uc.Log.WithFields(logrus.Fields{"user_id": user.ID, "session": sid})

	if err := uc.Sessions.SaveUser(r.Context(), sid, user); err != nil {
		logger.WithError(err).Warn("failed to save session user")
	}
	if _, err := uc.Cart.Merge(r.Context(), models.Guest(sid), models.Authenticated(user.ID), uc.MergePolicy); err != nil {
		logger.WithError(err).Warn("failed to merge guest cart")
	}
}

// Logout forgets the session's account snapshot
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := middleware.SessionID(r.Context()); sid != "" {
		if err := uc.Sessions.DeleteUser(r.Context(), sid); err != nil {
			uc.Log.WithError(err).Error("failed to clear session user")
			http.Error(w, "Error logging out", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the account snapshot of the browser session, null for guests
func (uc *UserController) Session(w http.ResponseWriter, r *http.Request) {
	var user *models.User
	if sid := middleware.SessionID(r.Context()); sid != "" {
		var err error
		user, err = uc.Sessions.LoadUser(r.Context(), sid)
		if err != nil {
			uc.Log.WithError(err).WithField("session", sid).Error("failed to load session user")
			http.Error(w, "Error loading session", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

// GetProfile retrieves the signed-in user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := uc.Accounts.Profile(r.Context(), claims.UserID)
	if errors.Is(err, accounts.ErrUnknownUser) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile changes name, phone and address
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update models.ProfileUpdate
	if err := decode(r, &update); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	user, err := uc.Accounts.UpdateProfile(r.Context(), claims.UserID, update)
	if errors.Is(err, accounts.ErrUnknownUser) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	if sid := middleware.SessionID(r.Context()); sid != "" {
		if err := uc.Sessions.SaveUser(r.Context(), sid, user); err != nil {
			uc.Log.WithError(err).WithField("user_id", user.ID).Warn("failed to refresh session user")
		}
	}
	writeJSON(w, http.StatusOK, user)
}

package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codemart-app/backend/auth"
	"github.com/codemart-app/backend/database"
	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
	"github.com/codemart-app/backend/services/googleauth"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  database.UserRepository
	tokens    auth.TokenService
	google    googleauth.Verifier
}

func newAuthHandler(userRepo database.UserRepository, tokens auth.TokenService, google googleauth.Verifier) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
		google:    google,
	}
}

type loginRequest struct {
	Email    string  `json:"email"`
	Password *string `json:"password"`
}

type signupRequest struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Password       *string `json:"password"`
	Occupation     string  `json:"occupation"`
	Company        string  `json:"company"`
	ProfilePicture string  `json:"profilePicture"`
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

// login verifies credentials and issues a token. A nil password is the OAuth
// path: the caller was already verified upstream and is matched by email
// alone. Failures never reveal whether the email or the password was wrong.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			h.responder.WriteError(w, errs.NewMissingFieldError("email"))
			return
		}

		user, err := h.userRepo.FindByEmail(req.Email)
		if err != nil {
			if errs.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		if req.Password != nil {
			if user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, *req.Password) {
				h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
				return
			}
		}

		token, err := h.tokens.IssueToken(*user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSON(w, TokenResponse{Token: token})
	}
}

// signup creates a user and issues a token. Without a password the account
// is OAuth-provisioned: it gets a random unused hash, so password login is
// structurally impossible.
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		for field, value := range map[string]string{
			"firstName": req.FirstName,
			"lastName":  req.LastName,
			"email":     req.Email,
		} {
			if strings.TrimSpace(value) == "" {
				h.responder.WriteError(w, errs.NewMissingFieldError(field))
				return
			}
		}

		password := ""
		if req.Password != nil {
			password = *req.Password
		}
		if password == "" {
			password = uuid.NewString()
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		user := models.User{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          req.Email,
			PasswordHash:   &hash,
			Occupation:     req.Occupation,
			Company:        req.Company,
			ProfilePicture: req.ProfilePicture,
		}
		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.tokens.IssueToken(user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, TokenResponse{Token: token})
	}
}

// googleLogin verifies a Google ID token, provisions a local account on
// first sight, and issues a token.
func (h authHandler) googleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req googleLoginRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if req.Token == "" {
			h.responder.WriteError(w, errs.NewMissingFieldError("token"))
			return
		}

		profile, err := h.google.Verify(r.Context(), req.Token)
		if err != nil {
			apiErr := errs.NewUnauthorizedError("google token verification failed")
			apiErr.Details = err.Error()
			h.responder.WriteError(w, apiErr)
			return
		}

		user, err := h.userRepo.FindByEmail(profile.Email)
		if err != nil {
			if !errs.IsNotFound(err) {
				h.responder.WriteError(w, err)
				return
			}
			user, err = h.provisionGoogleUser(profile)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		token, err := h.tokens.IssueToken(*user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSON(w, TokenResponse{Token: token})
	}
}

func (h authHandler) provisionGoogleUser(profile googleauth.Profile) (*models.User, error) {
	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return nil, errs.NewInternalError("failed to hash password")
	}

	user := models.User{
		FirstName:      profile.GivenName,
		LastName:       profile.FamilyName,
		Email:          profile.Email,
		PasswordHash:   &hash,
		ProfilePicture: profile.Picture,
	}
	if err := h.userRepo.Add(&user); err != nil {
		return nil, err
	}
	h.logger.Info().Str("email", profile.Email).Msg("provisioned user from google login")
	return &user, nil
}

// getCurrentUser returns the authenticated user's profile plus their orders.
func (h authHandler) getCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxGetClaims(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		user, err := h.userRepo.FindByIDWithOrders(claims.UserID())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, UserWithOrdersResponse{
			UserResponse: NewUserResponse(*user),
			Orders:       NewOrderResponses(user.Orders),
		})
	}
}

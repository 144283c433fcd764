package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/cride-server/internal/logger"
	"github.com/dtroode/cride-server/internal/model"
	"github.com/dtroode/cride-server/internal/service"
)

const (
	msgVerified    = "Congratulation, now go share some rides!"
	msgInvalidBody = "Invalid request body."

	sniffLen = 512
	// multipartOverhead leaves room for form boundaries around the picture.
	multipartOverhead = 1 << 20
)

// AuthService defines account registration, login and verification.
type AuthService interface {
	SignUp(ctx context.Context, params model.SignUpParams) (model.Account, error)
	Login(ctx context.Context, params model.LoginParams) (model.Account, string, error)
	Verify(ctx context.Context, params model.VerifyParams) error
}

// ProfileService defines operations on the authenticated account.
type ProfileService interface {
	Me(ctx context.Context, accountID uuid.UUID) (model.Account, model.Profile, error)
	UpdatePicture(ctx context.Context, accountID uuid.UUID, upload model.Upload) (model.Profile, error)
}

// Users handles the /users endpoints.
type Users struct {
	authService    AuthService
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUsers(
	authService AuthService,
	profileService ProfileService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Users {
	return &Users{
		authService:    authService,
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type accountResponse struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type profileResponse struct {
	Picture      string  `json:"picture"`
	Biography    string  `json:"biography"`
	RidesTaken   int     `json:"rides_taken"`
	RidesOffered int     `json:"rides_offered"`
	Reputation   float64 `json:"reputation"`
}

type meResponse struct {
	accountResponse
	Profile profileResponse `json:"profile"`
}

func newAccountResponse(a model.Account) accountResponse {
	return accountResponse{
		Username:    a.Username,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
	}
}

func newProfileResponse(p model.Profile) profileResponse {
	return profileResponse{
		Picture:      p.Picture,
		Biography:    p.Biography,
		RidesTaken:   p.RidesTaken,
		RidesOffered: p.RidesOffered,
		Reputation:   p.Reputation,
	}
}

// Login handles POST /users/login.
func (h *Users) Login(c *gin.Context) {
	var params model.LoginParams
	if err := c.ShouldBindJSON(&params); err != nil {
		writeBadRequest(c, msgInvalidBody)
		return
	}

	_, token, err := h.authService.Login(c.Request.Context(), params)
	if err != nil {
		h.logError("login", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "token": token})
}

// SignUp handles POST /users/signup.
func (h *Users) SignUp(c *gin.Context) {
	var params model.SignUpParams
	if err := c.ShouldBindJSON(&params); err != nil {
		writeBadRequest(c, msgInvalidBody)
		return
	}

	account, err := h.authService.SignUp(c.Request.Context(), params)
	if err != nil {
		h.logError("signup", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAccountResponse(account))
}

// Verify handles POST /users/verify.
func (h *Users) Verify(c *gin.Context) {
	var params model.VerifyParams
	if err := c.ShouldBindJSON(&params); err != nil {
		writeBadRequest(c, msgInvalidBody)
		return
	}

	if err := h.authService.Verify(c.Request.Context(), params); err != nil {
		h.logError("verify", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgVerified})
}

// VerifyLink handles GET /users/verify?token=..., the link sent by email.
func (h *Users) VerifyLink(c *gin.Context) {
	params := model.VerifyParams{Token: c.Query("token")}

	if err := h.authService.Verify(c.Request.Context(), params); err != nil {
		h.logError("verify", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgVerified})
}

// Me handles GET /users/me.
func (h *Users) Me(c *gin.Context) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, model.ErrUnauthenticated)
		return
	}

	account, profile, err := h.profileService.Me(c.Request.Context(), accountID)
	if err != nil {
		h.logError("me", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, meResponse{
		accountResponse: newAccountResponse(account),
		Profile:         newProfileResponse(profile),
	})
}

// UpdatePicture handles PUT /users/me/picture with a multipart "picture" field.
func (h *Users) UpdatePicture(c *gin.Context) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, model.ErrUnauthenticated)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxPictureSize+multipartOverhead)

	fh, err := c.FormFile("picture")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(c, service.PictureError(service.MsgPictureTooBig))
			return
		}
		writeError(c, service.PictureError(service.MsgPictureMissing))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.logError("picture", err)
		writeError(c, err)
		return
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.logError("picture", err)
		writeError(c, err)
		return
	}
	head = head[:n]

	profile, err := h.profileService.UpdatePicture(c.Request.Context(), accountID, model.Upload{
		ContentType: http.DetectContentType(head),
		Size:        fh.Size,
		Body:        io.MultiReader(bytes.NewReader(head), f),
	})
	if err != nil {
		h.logError("picture", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(profile))
}

func (h *Users) logError(action string, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		h.logger.Debug("Users handler: request rejected",
			"action", action,
			"error", err.Error())
		return
	}
	h.logger.Error("Users handler: request failed",
		"action", action,
		"error", err.Error())
}

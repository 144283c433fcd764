package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/cride-server/internal/logger"
	"github.com/dtroode/cride-server/internal/model"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgAccountNotActive   = "Account is not active yet."
	msgEmailTaken         = "A user with that email already exists."
	msgUsernameTaken      = "A user with that username already exists."
	msgTokenExpired       = "Verification link has expired."
	msgTokenInvalid       = "Invalid token."

	sessionKeyBytes = 20
)

// VerificationNotifier delivers the verification email of a new account.
type VerificationNotifier interface {
	Dispatch(ctx context.Context, account model.Account) error
}

// Auth implements sign-up, login, email verification and session token lookup.
type Auth struct {
	accountStore model.AccountStore
	tokenStore   model.SessionTokenStore
	tokenManager model.TokenManager
	notifier     VerificationNotifier
	validator    *Validator
	logger       *logger.Logger
	bcryptCost   int
	now          func() time.Time

	checkSimilarity bool

	dummyHashOnce sync.Once
	dummyHash     []byte
}

// AuthOption customizes Auth.
type AuthOption func(*Auth)

// WithPasswordSimilarityCheck also rejects sign-up passwords that resemble
// the username, the names or the email address. It is off by default.
func WithPasswordSimilarityCheck(enabled bool) AuthOption {
	return func(a *Auth) {
		a.checkSimilarity = enabled
	}
}

func NewAuth(
	accountStore model.AccountStore,
	tokenStore model.SessionTokenStore,
	tokenManager model.TokenManager,
	notifier VerificationNotifier,
	logger *logger.Logger,
	opts ...AuthOption,
) *Auth {
	a := &Auth{
		accountStore: accountStore,
		tokenStore:   tokenStore,
		tokenManager: tokenManager,
		notifier:     notifier,
		validator:    NewValidator(),
		logger:       logger,
		bcryptCost:   bcrypt.DefaultCost,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SignUp validates the payload, creates the account with its profile and
// dispatches the verification email.
func (a *Auth) SignUp(ctx context.Context, params model.SignUpParams) (model.Account, error) {
	params.Email = normalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting sign up",
		"email", params.Email,
		"username", params.Username)

	verr, err := a.validateSignUp(ctx, params)
	if err != nil {
		return model.Account{}, err
	}
	if verr != nil {
		a.logger.Info("Auth service: sign up rejected",
			"email", params.Email,
			"error", verr.Error())
		return model.Account{}, verr
	}

	hash, err := hashPassword(params.Password, a.bcryptCost)
	if err != nil {
		return model.Account{}, err
	}

	now := a.now().UTC()
	account, err := a.accountStore.Create(ctx, model.Account{
		ID:           uuid.New(),
		Email:        params.Email,
		Username:     params.Username,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PhoneNumber:  params.PhoneNumber,
		PasswordHash: hash,
		IsClient:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		var uve *model.UniqueViolationError
		if errors.As(err, &uve) {
			a.logger.Info("Auth service: sign up lost uniqueness race",
				"email", params.Email,
				"field", uve.Field)
			return model.Account{}, conflictError(uve.Field)
		}
		a.logger.Error("Auth service: failed to create account",
			"email", params.Email,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	if err := a.notifier.Dispatch(ctx, account); err != nil {
		a.logger.Warn("Auth service: verification email lost",
			"account_id", account.ID,
			"error", err.Error())
	}

	a.logger.Info("Auth service: sign up completed",
		"account_id", account.ID,
		"username", account.Username)

	return account, nil
}

// validateSignUp reports field errors first, then the password
// confirmation mismatch, then password strength problems.
func (a *Auth) validateSignUp(ctx context.Context, params model.SignUpParams) (*model.ValidationError, error) {
	verr := a.validator.Struct(params)
	if verr == nil {
		verr = model.NewValidationError()
	}

	if !verr.Has("email") {
		if err := a.checkTaken(ctx, verr, "email", params.Email, a.accountStore.GetByEmail); err != nil {
			return nil, err
		}
	}
	if !verr.Has("username") {
		if err := a.checkTaken(ctx, verr, "username", params.Username, a.accountStore.GetByUsername); err != nil {
			return nil, err
		}
	}
	if !verr.Empty() {
		return verr, nil
	}

	if params.Password != params.PasswordConfirmation {
		return model.NewNonFieldError(msgPasswordsDontMatch), nil
	}

	var attrs []userAttribute
	if a.checkSimilarity {
		attrs = []userAttribute{
			{name: "username", value: params.Username},
			{name: "first name", value: params.FirstName},
			{name: "last name", value: params.LastName},
			{name: "email address", value: params.Email},
		}
	}
	problems := passwordProblems(params.Password, attrs)
	if len(problems) > 0 {
		verr := model.NewValidationError()
		for _, p := range problems {
			verr.Add(model.NonFieldErrors, p)
		}
		return verr, nil
	}

	return nil, nil
}

func (a *Auth) checkTaken(
	ctx context.Context,
	verr *model.ValidationError,
	field, value string,
	lookup func(context.Context, string) (model.Account, error),
) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		verr.AddConflict(field, takenMessage(field))
		return nil
	case errors.Is(err, model.ErrNotFound):
		return nil
	default:
		a.logger.Error("Auth service: uniqueness lookup failed",
			"field", field,
			"error", err.Error())
		return fmt.Errorf("failed to check %s: %w", field, err)
	}
}

func takenMessage(field string) string {
	switch field {
	case "email":
		return msgEmailTaken
	case "username":
		return msgUsernameTaken
	default:
		return fmt.Sprintf("A user with that %s already exists.", field)
	}
}

func conflictError(field string) *model.ValidationError {
	verr := model.NewValidationError()
	verr.AddConflict(field, takenMessage(field))
	return verr
}

// Login checks the credentials and returns the account with its session token.
func (a *Auth) Login(ctx context.Context, params model.LoginParams) (model.Account, string, error) {
	params.Email = normalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting login",
		"email", params.Email)

	if verr := a.validator.Struct(params); verr != nil {
		return model.Account{}, "", verr
	}

	account, err := a.accountStore.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get account by email",
			"email", params.Email,
			"error", err.Error())
		return model.Account{}, "", fmt.Errorf("failed to get account by email: %w", err)
	}

	if errors.Is(err, model.ErrNotFound) {
		checkPassword(a.getDummyHash(), params.Password)
		a.logger.Info("Auth service: login for unknown email",
			"email", params.Email)
		return model.Account{}, "", model.NewNonFieldError(msgInvalidCredentials)
	}

	if !checkPassword(account.PasswordHash, params.Password) {
		a.logger.Info("Auth service: login with wrong password",
			"account_id", account.ID)
		return model.Account{}, "", model.NewNonFieldError(msgInvalidCredentials)
	}

	if !account.IsVerified {
		a.logger.Info("Auth service: login for unverified account",
			"account_id", account.ID)
		return model.Account{}, "", model.NewNonFieldError(msgAccountNotActive)
	}

	key, err := generateSessionKey()
	if err != nil {
		return model.Account{}, "", err
	}

	token, err := a.tokenStore.GetOrCreate(ctx, account.ID, key)
	if err != nil {
		a.logger.Error("Auth service: failed to get or create session token",
			"account_id", account.ID,
			"error", err.Error())
		return model.Account{}, "", fmt.Errorf("failed to get session token: %w", err)
	}

	a.logger.Info("Auth service: login completed",
		"account_id", account.ID)

	return account, token.Key, nil
}

// Verify consumes a verification token and marks its account as verified.
func (a *Auth) Verify(ctx context.Context, params model.VerifyParams) error {
	if verr := a.validator.Struct(params); verr != nil {
		return verr
	}

	accountID, err := a.tokenManager.ParseVerificationToken(params.Token)
	if err != nil {
		a.logger.Info("Auth service: verification token rejected",
			"error", err.Error())
		if errors.Is(err, model.ErrTokenExpired) {
			return tokenError(msgTokenExpired)
		}
		return tokenError(msgTokenInvalid)
	}

	if _, err := a.accountStore.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return tokenError(msgTokenInvalid)
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	if err := a.accountStore.MarkVerified(ctx, accountID); err != nil {
		a.logger.Error("Auth service: failed to mark account verified",
			"account_id", accountID,
			"error", err.Error())
		return fmt.Errorf("failed to verify account: %w", err)
	}

	a.logger.Info("Auth service: account verified",
		"account_id", accountID)

	return nil
}

func tokenError(msg string) *model.ValidationError {
	verr := model.NewValidationError()
	verr.Add("token", msg)
	return verr
}

// Authenticate resolves a session token key to its account ID.
func (a *Auth) Authenticate(ctx context.Context, key string) (uuid.UUID, error) {
	if key == "" {
		return uuid.Nil, model.ErrUnauthenticated
	}

	token, err := a.tokenStore.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, model.ErrUnauthenticated
		}
		return uuid.Nil, fmt.Errorf("failed to get session token: %w", err)
	}

	return token.AccountID, nil
}

func (a *Auth) getDummyHash() []byte {
	a.dummyHashOnce.Do(func() {
		a.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("cride-dummy-password"), a.bcryptCost)
	})
	return a.dummyHash
}

func generateSessionKey() (string, error) {
	b := make([]byte, sessionKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

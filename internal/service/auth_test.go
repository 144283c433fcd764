package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/cride-server/internal/mocks"
	"github.com/dtroode/cride-server/internal/model"
	"github.com/dtroode/cride-server/internal/testutil"
)

type authDeps struct {
	accounts *mocks.AccountStore
	tokens   *mocks.SessionTokenStore
	tokenMan *mocks.TokenManager
	notifier *mocks.VerificationNotifier
}

func newTestAuth(t *testing.T) (*Auth, authDeps) {
	t.Helper()
	deps := authDeps{
		accounts: mocks.NewAccountStore(t),
		tokens:   mocks.NewSessionTokenStore(t),
		tokenMan: mocks.NewTokenManager(t),
		notifier: mocks.NewVerificationNotifier(t),
	}
	a := NewAuth(deps.accounts, deps.tokens, deps.tokenMan, deps.notifier, testutil.MakeNoopLogger())
	a.bcryptCost = bcrypt.MinCost
	return a, deps
}

func validSignUp() model.SignUpParams {
	return model.SignUpParams{
		Email:                "a@b.com",
		Username:             "abcd",
		PhoneNumber:          "+50769237843",
		Password:             "password1",
		PasswordConfirmation: "password1",
		FirstName:            "An",
		LastName:             "Bc",
	}
}

func mustHash(t *testing.T, password string) []byte {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func requireValidation(t *testing.T, err error) *model.ValidationError {
	t.Helper()
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestAuth_SignUp_Success(t *testing.T) {
	ctx := context.Background()
	a, d := newTestAuth(t)

	d.accounts.On("GetByEmail", mock.Anything, "a@b.com").Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("GetByUsername", mock.Anything, "abcd").Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("Create", mock.Anything, mock.MatchedBy(func(acc model.Account) bool {
		return acc.Email == "a@b.com" &&
			acc.Username == "abcd" &&
			acc.IsClient &&
			!acc.IsVerified &&
			acc.ID != uuid.Nil &&
			bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte("password1")) == nil
	})).Return(func(_ context.Context, acc model.Account) (model.Account, error) {
		return acc, nil
	})
	d.notifier.On("Dispatch", mock.Anything, mock.AnythingOfType("model.Account")).Return(nil).Once()

	acc, err := a.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	assert.False(t, acc.IsVerified)
	assert.Equal(t, "+50769237843", acc.PhoneNumber)
	assert.NotContains(t, string(acc.PasswordHash), "password1")
}

func TestAuth_SignUp_NormalizesEmailDomain(t *testing.T) {
	ctx := context.Background()
	a, d := newTestAuth(t)

	params := validSignUp()
	params.Email = " Pablo@Example.COM "

	d.accounts.On("GetByEmail", mock.Anything, "Pablo@example.com").Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("GetByUsername", mock.Anything, "abcd").Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("Create", mock.Anything, mock.Anything).Return(func(_ context.Context, acc model.Account) (model.Account, error) {
		return acc, nil
	})
	d.notifier.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	acc, err := a.SignUp(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "Pablo@example.com", acc.Email)
}

func TestAuth_SignUp_NotificationFailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	a, d := newTestAuth(t)

	d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{ID: uuid.New(), Email: "a@b.com"}, nil)
	d.notifier.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("smtp down and redis down")).Once()

	acc, err := a.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, acc.ID)
}

func TestAuth_SignUp_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.SignUpParams)
		field  string
		msg    string
	}{
		{
			name:   "invalid email",
			mutate: func(p *model.SignUpParams) { p.Email = "not-an-email" },
			field:  "email",
			msg:    "Enter a valid email address.",
		},
		{
			name:   "short username",
			mutate: func(p *model.SignUpParams) { p.Username = "abc" },
			field:  "username",
			msg:    "Ensure this field has at least 4 characters.",
		},
		{
			name:   "long username",
			mutate: func(p *model.SignUpParams) { p.Username = "abcdefghijklmnopqrstu" },
			field:  "username",
			msg:    "Ensure this field has no more than 20 characters.",
		},
		{
			name:   "bad phone",
			mutate: func(p *model.SignUpParams) { p.PhoneNumber = "12ab" },
			field:  "phone_number",
			msg:    msgInvalidPhone,
		},
		{
			name:   "short first name",
			mutate: func(p *model.SignUpParams) { p.FirstName = "A" },
			field:  "first_name",
			msg:    "Ensure this field has at least 2 characters.",
		},
		{
			name:   "missing last name",
			mutate: func(p *model.SignUpParams) { p.LastName = "" },
			field:  "last_name",
			msg:    msgRequired,
		},
		{
			name:   "email longer than column",
			mutate: func(p *model.SignUpParams) { p.Email = longEmail() },
			field:  "email",
			msg:    "Ensure this field has no more than 254 characters.",
		},
		{
			name:   "short password",
			mutate: func(p *model.SignUpParams) { p.Password = "short"; p.PasswordConfirmation = "short" },
			field:  "password",
			msg:    "Ensure this field has at least 8 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, d := newTestAuth(t)
			d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound).Maybe()
			d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound).Maybe()

			p := validSignUp()
			tt.mutate(&p)

			_, err := a.SignUp(context.Background(), p)
			verr := requireValidation(t, err)
			assert.Contains(t, verr.Fields[tt.field], tt.msg)
			assert.NotErrorIs(t, err, model.ErrAlreadyExists)
			d.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuth_SignUp_EmptyPhoneAllowed(t *testing.T) {
	a, d := newTestAuth(t)
	d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{ID: uuid.New()}, nil)
	d.notifier.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	p := validSignUp()
	p.PhoneNumber = ""
	_, err := a.SignUp(context.Background(), p)
	require.NoError(t, err)
}

func TestAuth_SignUp_Duplicates(t *testing.T) {
	a, d := newTestAuth(t)
	d.accounts.On("GetByEmail", mock.Anything, "a@b.com").Return(model.Account{ID: uuid.New()}, nil)
	d.accounts.On("GetByUsername", mock.Anything, "abcd").Return(model.Account{ID: uuid.New()}, nil)

	_, err := a.SignUp(context.Background(), validSignUp())
	verr := requireValidation(t, err)
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
	assert.Equal(t, []string{msgEmailTaken}, verr.Fields["email"])
	assert.Equal(t, []string{msgUsernameTaken}, verr.Fields["username"])
	d.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestAuth_SignUp_UniqueViolationAtInsert(t *testing.T) {
	a, d := newTestAuth(t)
	d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("Create", mock.Anything, mock.Anything).
		Return(model.Account{}, fmt.Errorf("failed to create account: %w", &model.UniqueViolationError{Field: "username"}))

	_, err := a.SignUp(context.Background(), validSignUp())
	verr := requireValidation(t, err)
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
	assert.Equal(t, []string{msgUsernameTaken}, verr.Fields["username"])
	d.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestAuth_SignUp_PasswordsDontMatch(t *testing.T) {
	a, d := newTestAuth(t)
	d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)

	p := validSignUp()
	p.PasswordConfirmation = "password2"

	_, err := a.SignUp(context.Background(), p)
	verr := requireValidation(t, err)
	assert.Equal(t, []string{"Passwords don't match."}, verr.Fields[model.NonFieldErrors])
}

func TestAuth_SignUp_WeakPassword(t *testing.T) {
	a, d := newTestAuth(t)
	d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)

	p := validSignUp()
	p.Password, p.PasswordConfirmation = "12345678", "12345678"

	_, err := a.SignUp(context.Background(), p)
	verr := requireValidation(t, err)
	assert.ElementsMatch(t, []string{msgPasswordTooCommon, msgPasswordNumeric}, verr.Fields[model.NonFieldErrors])
	d.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_SignUp_PasswordSimilarToAccount(t *testing.T) {
	similar := func() model.SignUpParams {
		p := validSignUp()
		p.Username = "juanruiz"
		p.FirstName, p.LastName = "Juan", "Ruiz"
		p.Password, p.PasswordConfirmation = "juanruiz1", "juanruiz1"
		return p
	}

	t.Run("accepted by default", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
		d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
		d.accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{ID: uuid.New()}, nil)
		d.notifier.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

		_, err := a.SignUp(context.Background(), similar())
		require.NoError(t, err)
	})

	t.Run("rejected when enabled", func(t *testing.T) {
		a, d := newTestAuth(t)
		WithPasswordSimilarityCheck(true)(a)
		d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
		d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)

		_, err := a.SignUp(context.Background(), similar())
		verr := requireValidation(t, err)
		assert.Contains(t, verr.Fields[model.NonFieldErrors], "The password is too similar to the username.")
		d.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuth_SignUp_StoreErrors(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, errors.New("db down"))

		_, err := a.SignUp(context.Background(), validSignUp())
		require.Error(t, err)
		var verr *model.ValidationError
		assert.False(t, errors.As(err, &verr))
	})

	t.Run("create", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
		d.accounts.On("GetByUsername", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
		d.accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{}, errors.New("tx aborted"))

		_, err := a.SignUp(context.Background(), validSignUp())
		assert.ErrorContains(t, err, "failed to create account")
		d.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "password1")
	verified := model.Account{ID: uuid.New(), Email: "a@b.com", PasswordHash: hash, IsVerified: true}

	t.Run("success", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.accounts.On("GetByEmail", mock.Anything, "a@b.com").Return(verified, nil)
		d.tokens.On("GetOrCreate", mock.Anything, verified.ID, mock.MatchedBy(func(key string) bool {
			return len(key) == 40
		})).Return(model.SessionToken{Key: "existing-key", AccountID: verified.ID}, nil)

		acc, key, err := a.Login(ctx, model.LoginParams{Email: "a@b.com", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, verified.ID, acc.ID)
		assert.Equal(t, "existing-key", key)
	})

	t.Run("unknown email", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.accounts.On("GetByEmail", mock.Anything, "x@b.com").Return(model.Account{}, model.ErrNotFound)

		_, key, err := a.Login(ctx, model.LoginParams{Email: "x@b.com", Password: "password1"})
		verr := requireValidation(t, err)
		assert.Equal(t, []string{"Invalid credentials."}, verr.Fields[model.NonFieldErrors])
		assert.Empty(t, key)
	})

	t.Run("wrong password", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.accounts.On("GetByEmail", mock.Anything, "a@b.com").Return(verified, nil)

		_, _, err := a.Login(ctx, model.LoginParams{Email: "a@b.com", Password: "password2"})
		verr := requireValidation(t, err)
		assert.Equal(t, []string{"Invalid credentials."}, verr.Fields[model.NonFieldErrors])
		d.tokens.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unverified", func(t *testing.T) {
		a, d := newTestAuth(t)
		unverified := verified
		unverified.IsVerified = false
		d.accounts.On("GetByEmail", mock.Anything, "a@b.com").Return(unverified, nil)

		_, _, err := a.Login(ctx, model.LoginParams{Email: "a@b.com", Password: "password1"})
		verr := requireValidation(t, err)
		assert.Equal(t, []string{"Account is not active yet."}, verr.Fields[model.NonFieldErrors])
		d.tokens.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("field errors", func(t *testing.T) {
		a, _ := newTestAuth(t)

		_, _, err := a.Login(ctx, model.LoginParams{Email: "bad", Password: "short"})
		verr := requireValidation(t, err)
		assert.True(t, verr.Has("email"))
		assert.True(t, verr.Has("password"))
	})

	t.Run("token store error", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.accounts.On("GetByEmail", mock.Anything, "a@b.com").Return(verified, nil)
		d.tokens.On("GetOrCreate", mock.Anything, verified.ID, mock.Anything).Return(model.SessionToken{}, errors.New("db down"))

		_, _, err := a.Login(ctx, model.LoginParams{Email: "a@b.com", Password: "password1"})
		assert.ErrorContains(t, err, "failed to get session token")
	})

	t.Run("account store error", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.accounts.On("GetByEmail", mock.Anything, "a@b.com").Return(model.Account{}, errors.New("db down"))

		_, _, err := a.Login(ctx, model.LoginParams{Email: "a@b.com", Password: "password1"})
		assert.ErrorContains(t, err, "failed to get account by email")
	})
}

func TestAuth_Verify(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.tokenMan.On("ParseVerificationToken", "tok").Return(id, nil)
		d.accounts.On("GetByID", mock.Anything, id).Return(model.Account{ID: id}, nil)
		d.accounts.On("MarkVerified", mock.Anything, id).Return(nil).Once()

		require.NoError(t, a.Verify(ctx, model.VerifyParams{Token: "tok"}))
	})

	t.Run("expired", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.tokenMan.On("ParseVerificationToken", "tok").Return(uuid.Nil, model.ErrTokenExpired)

		verr := requireValidation(t, a.Verify(ctx, model.VerifyParams{Token: "tok"}))
		assert.Equal(t, []string{"Verification link has expired."}, verr.Fields["token"])
	})

	t.Run("invalid", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.tokenMan.On("ParseVerificationToken", "tok").Return(uuid.Nil, fmt.Errorf("%w: bad signature", model.ErrTokenInvalid))

		verr := requireValidation(t, a.Verify(ctx, model.VerifyParams{Token: "tok"}))
		assert.Equal(t, []string{"Invalid token."}, verr.Fields["token"])
	})

	t.Run("unknown account", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.tokenMan.On("ParseVerificationToken", "tok").Return(id, nil)
		d.accounts.On("GetByID", mock.Anything, id).Return(model.Account{}, model.ErrNotFound)

		verr := requireValidation(t, a.Verify(ctx, model.VerifyParams{Token: "tok"}))
		assert.Equal(t, []string{"Invalid token."}, verr.Fields["token"])
		d.accounts.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	})

	t.Run("missing token", func(t *testing.T) {
		a, _ := newTestAuth(t)

		verr := requireValidation(t, a.Verify(ctx, model.VerifyParams{}))
		assert.Equal(t, []string{msgRequired}, verr.Fields["token"])
	})

	t.Run("store error", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.tokenMan.On("ParseVerificationToken", "tok").Return(id, nil)
		d.accounts.On("GetByID", mock.Anything, id).Return(model.Account{ID: id}, nil)
		d.accounts.On("MarkVerified", mock.Anything, id).Return(errors.New("db down"))

		assert.ErrorContains(t, a.Verify(ctx, model.VerifyParams{Token: "tok"}), "failed to verify account")
	})
}

func TestAuth_Authenticate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("empty key", func(t *testing.T) {
		a, _ := newTestAuth(t)
		_, err := a.Authenticate(ctx, "")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("unknown key", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.tokens.On("GetByKey", mock.Anything, "nope").Return(model.SessionToken{}, model.ErrNotFound)
		_, err := a.Authenticate(ctx, "nope")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("known key", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.tokens.On("GetByKey", mock.Anything, "key").Return(model.SessionToken{Key: "key", AccountID: id, CreatedAt: time.Now()}, nil)
		got, err := a.Authenticate(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("store error", func(t *testing.T) {
		a, d := newTestAuth(t)
		d.tokens.On("GetByKey", mock.Anything, "key").Return(model.SessionToken{}, errors.New("db down"))
		_, err := a.Authenticate(ctx, "key")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrUnauthenticated)
	})
}

func TestGenerateSessionKey(t *testing.T) {
	k1, err := generateSessionKey()
	require.NoError(t, err)
	k2, err := generateSessionKey()
	require.NoError(t, err)

	assert.Len(t, k1, 40)
	assert.Regexp(t, "^[0-9a-f]{40}$", k1)
	assert.NotEqual(t, k1, k2)
}

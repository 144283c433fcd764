package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/cride-server/internal/model"
	"github.com/dtroode/cride-server/internal/testutil"
	"github.com/dtroode/cride-server/internal/token"
)

// memAccounts is an in-memory account and profile store enforcing unique email and username.
type memAccounts struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]model.Account
	profiles map[uuid.UUID]model.Profile
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		accounts: make(map[uuid.UUID]model.Account),
		profiles: make(map[uuid.UUID]model.Profile),
	}
}

func (m *memAccounts) Create(_ context.Context, a model.Account) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return model.Account{}, &model.UniqueViolationError{Field: "email"}
		}
		if existing.Username == a.Username {
			return model.Account{}, &model.UniqueViolationError{Field: "username"}
		}
	}
	m.accounts[a.ID] = a
	m.profiles[a.ID] = model.Profile{AccountID: a.ID, Reputation: model.DefaultReputation}
	return a, nil
}

func (m *memAccounts) find(match func(model.Account) bool) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if match(a) {
			return a, nil
		}
	}
	return model.Account{}, model.ErrNotFound
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	return m.find(func(a model.Account) bool { return a.ID == id })
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (model.Account, error) {
	return m.find(func(a model.Account) bool { return a.Email == email })
}

func (m *memAccounts) GetByUsername(_ context.Context, username string) (model.Account, error) {
	return m.find(func(a model.Account) bool { return a.Username == username })
}

func (m *memAccounts) MarkVerified(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return model.ErrNotFound
	}
	a.IsVerified = true
	m.accounts[id] = a
	return nil
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]model.SessionToken
}

func (m *memTokens) GetOrCreate(_ context.Context, accountID uuid.UUID, key string) (model.SessionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[accountID]; ok {
		return t, nil
	}
	t := model.SessionToken{Key: key, AccountID: accountID, CreatedAt: time.Now()}
	m.tokens[accountID] = t
	return t, nil
}

func (m *memTokens) GetByKey(_ context.Context, key string) (model.SessionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.Key == key {
			return t, nil
		}
	}
	return model.SessionToken{}, model.ErrNotFound
}

type recordingNotifier struct {
	sent []model.Account
}

func (r *recordingNotifier) Dispatch(_ context.Context, account model.Account) error {
	r.sent = append(r.sent, account)
	return nil
}

type SignUpFlowSuite struct {
	suite.Suite
	ctx      context.Context
	accounts *memAccounts
	notifier *recordingNotifier
	tokens   *token.JWT
	auth     *Auth
}

func (s *SignUpFlowSuite) reset() {
	s.ctx = context.Background()
	s.accounts = newMemAccounts()
	s.notifier = &recordingNotifier{}
	s.tokens = token.NewJWT("test-secret", time.Hour)
	s.auth = NewAuth(s.accounts, &memTokens{tokens: make(map[uuid.UUID]model.SessionToken)}, s.tokens, s.notifier, testutil.MakeNoopLogger())
	s.auth.bcryptCost = bcrypt.MinCost
}

func (s *SignUpFlowSuite) TestSignUpVerifyLogin() {
	Convey("Given a visitor with a valid sign up payload", s.T(), func() {
		s.reset()
		payload := validSignUp()

		Convey("When the visitor signs up", func() {
			account, err := s.auth.SignUp(s.ctx, payload)
			So(err, ShouldBeNil)

			Convey("Then exactly one unverified account with an empty profile exists", func() {
				So(account.IsVerified, ShouldBeFalse)
				So(s.accounts.accounts, ShouldHaveLength, 1)
				So(s.accounts.profiles[account.ID].Reputation, ShouldEqual, model.DefaultReputation)
			})

			Convey("Then exactly one verification email is dispatched", func() {
				So(s.notifier.sent, ShouldHaveLength, 1)
				So(s.notifier.sent[0].Email, ShouldEqual, payload.Email)
			})

			Convey("And the same payload is submitted again", func() {
				_, err := s.auth.SignUp(s.ctx, payload)

				Convey("Then both email and username are reported as taken", func() {
					verr, ok := err.(*model.ValidationError)
					So(ok, ShouldBeTrue)
					So(verr.Fields["email"], ShouldResemble, []string{msgEmailTaken})
					So(verr.Fields["username"], ShouldResemble, []string{msgUsernameTaken})
					So(s.accounts.accounts, ShouldHaveLength, 1)
					So(s.notifier.sent, ShouldHaveLength, 1)
				})
			})

			Convey("And the visitor logs in before verifying", func() {
				_, key, err := s.auth.Login(s.ctx, model.LoginParams{Email: payload.Email, Password: payload.Password})

				Convey("Then the login is refused and no token is issued", func() {
					verr, ok := err.(*model.ValidationError)
					So(ok, ShouldBeTrue)
					So(verr.Fields[model.NonFieldErrors], ShouldResemble, []string{msgAccountNotActive})
					So(key, ShouldBeEmpty)
				})
			})

			Convey("And the visitor follows the verification link", func() {
				link, err := s.tokens.GenerateVerificationToken(account.ID)
				So(err, ShouldBeNil)
				So(s.auth.Verify(s.ctx, model.VerifyParams{Token: link}), ShouldBeNil)

				Convey("Then logging in twice returns the same token", func() {
					creds := model.LoginParams{Email: payload.Email, Password: payload.Password}
					_, first, err := s.auth.Login(s.ctx, creds)
					So(err, ShouldBeNil)
					So(first, ShouldHaveLength, 40)

					_, second, err := s.auth.Login(s.ctx, creds)
					So(err, ShouldBeNil)
					So(second, ShouldEqual, first)
				})

				Convey("Then a wrong password is still rejected", func() {
					_, _, err := s.auth.Login(s.ctx, model.LoginParams{Email: payload.Email, Password: "wrongpass1"})
					verr, ok := err.(*model.ValidationError)
					So(ok, ShouldBeTrue)
					So(verr.Fields[model.NonFieldErrors], ShouldResemble, []string{msgInvalidCredentials})
				})
			})
		})
	})
}

func TestSignUpFlow(t *testing.T) {
	suite.Run(t, new(SignUpFlowSuite))
}

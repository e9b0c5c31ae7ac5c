package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/domain"
	"github.com/bamiogunfemi/amy-sub000/internal/events"
)

const testSecret = "test-secret"

type testEnv struct {
	users     *fakeUserRepo
	statuses  *fakeStatusRepo
	companies *fakeCompanyRepo
	refresh   *fakeRefreshRepo
	resets    *fakeResetRepo

	hasher   auth.Hasher
	tokenMgr *auth.TokenManager
	mailer   *capturingMailer

	authSvc  *AuthService
	tokenSvc *TokenService
	pwSvc    *PasswordService
	accounts *AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	companies := newFakeCompanyRepo()
	env := &testEnv{
		users:     newFakeUserRepo(companies),
		statuses:  newFakeStatusRepo(),
		companies: companies,
		refresh:   newFakeRefreshRepo(),
		resets:    newFakeResetRepo(),
		hasher:    auth.NewBcryptHasher(bcrypt.MinCost),
		tokenMgr:  auth.NewTokenManager(testSecret, 15*time.Minute),
		mailer:    &capturingMailer{},
	}

	dispatcher := events.NewInMemoryDispatcher()
	env.authSvc = NewAuthService(AuthDependencies{
		UserRepo:       env.users,
		UserStatusRepo: env.statuses,
		CompanyRepo:    env.companies,
		Hasher:         env.hasher,
		Dispatcher:     dispatcher,
	})
	env.tokenSvc = NewTokenService(env.refresh, env.tokenMgr, env.authSvc, 30*24*time.Hour)
	env.pwSvc = NewPasswordService(env.users, env.resets, env.hasher, dispatcher, time.Hour)
	env.accounts = NewAccountService(env.users, env.statuses, dispatcher)

	NewNotificationService(dispatcher, env.mailer, zap.NewNop()).RegisterHandlers()

	return env
}

func (env *testEnv) signup(t *testing.T, email, password, name string) *domain.AuthUser {
	t.Helper()
	user, err := env.authSvc.Signup(context.Background(), SignupParams{
		Email:    email,
		Password: password,
		Name:     name,
	})
	require.NoError(t, err)
	return user
}

func (env *testEnv) block(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, env.accounts.Block(context.Background(), "admin-1", userID, "test block"))
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

func TestRequestResetUnknownEmailIsSilentNoOp(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.pwSvc.RequestReset(context.Background(), "nobody@x.com"))
	assert.Equal(t, 0, env.resets.count())
	assert.Empty(t, env.mailer.all())
}

func TestRequestResetMailsToken(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "longenough1", "A")

	require.NoError(t, env.pwSvc.RequestReset(context.Background(), "a@x.com"))

	sent := env.mailer.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@x.com", sent[0].Address)
	assert.NotEmpty(t, sent[0].Token)
	assert.Equal(t, 1, env.resets.count())
}

func TestVerifyResetTokenIsSideEffectFree(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "longenough1", "A")
	require.NoError(t, env.pwSvc.RequestReset(context.Background(), "a@x.com"))
	token := env.mailer.all()[0].Token

	require.NoError(t, env.pwSvc.VerifyResetToken(context.Background(), token))
	require.NoError(t, env.pwSvc.VerifyResetToken(context.Background(), token))
	assert.Equal(t, 1, env.resets.count())
}

func TestVerifyResetTokenUnknown(t *testing.T) {
	env := newTestEnv(t)

	err := env.pwSvc.VerifyResetToken(context.Background(), "no-such-token")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpiredToken))
}

func TestSetNewPasswordConsumesToken(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "longenough1", "A")
	require.NoError(t, env.pwSvc.RequestReset(context.Background(), "a@x.com"))
	token := env.mailer.all()[0].Token

	require.NoError(t, env.pwSvc.SetNewPassword(context.Background(), token, "brandnewpass1"))

	// old password no longer works, new one does
	_, err := env.authSvc.Login(context.Background(), "a@x.com", "longenough1")
	require.Error(t, err)
	_, err = env.authSvc.Login(context.Background(), "a@x.com", "brandnewpass1")
	require.NoError(t, err)

	// the consume is terminal
	err = env.pwSvc.SetNewPassword(context.Background(), token, "anothernewpass1")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpiredToken))
}

func TestExpiredResetTokenFailsBothPaths(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "longenough1", "A")
	require.NoError(t, env.pwSvc.RequestReset(context.Background(), "a@x.com"))
	token := env.mailer.all()[0].Token

	env.resets.expire(token, time.Now().Add(-time.Minute))

	err := env.pwSvc.VerifyResetToken(context.Background(), token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpiredToken))

	err = env.pwSvc.SetNewPassword(context.Background(), token, "brandnewpass1")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpiredToken))
}

func TestMultipleLiveResetTokensAllowed(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "longenough1", "A")

	require.NoError(t, env.pwSvc.RequestReset(context.Background(), "a@x.com"))
	require.NoError(t, env.pwSvc.RequestReset(context.Background(), "a@x.com"))

	sent := env.mailer.all()
	require.Len(t, sent, 2)
	require.NoError(t, env.pwSvc.VerifyResetToken(context.Background(), sent[0].Token))
	require.NoError(t, env.pwSvc.VerifyResetToken(context.Background(), sent[1].Token))
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "a@x.com", "longenough1", "A")

	err := env.pwSvc.ChangePassword(context.Background(), user.ID, "wrongcurrent", "brandnewpass1")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials))

	require.NoError(t, env.pwSvc.ChangePassword(context.Background(), user.ID, "longenough1", "brandnewpass1"))

	_, err = env.authSvc.Login(context.Background(), "a@x.com", "brandnewpass1")
	require.NoError(t, err)
}

func TestChangePasswordTooShort(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "a@x.com", "longenough1", "A")

	err := env.pwSvc.ChangePassword(context.Background(), user.ID, "longenough1", "short")
	require.Error(t, err)
}

package service

import (
	"context"
	"testing"

	"github.com/shopdesk/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAndTokenState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(CreateAccountInput{
		FullName:    "Trần Thị B",
		Email:       "B.Tran@Example.com",
		PhoneNumber: "0912345678",
		Password:    "secret123",
		Role:        constants.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleCustomer, registered.Account.Role)
	assert.Equal(t, "b.tran@example.com", registered.Account.Email)
	assert.NotEmpty(t, registered.Account.Code)
	assert.NotEmpty(t, registered.Token)

	_, err = env.auth.Register(CreateAccountInput{
		FullName:    "Trùng email",
		Email:       "b.tran@example.com",
		PhoneNumber: "0912345679",
		Password:    "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = env.auth.Login(LoginInput{Email: "b.tran@example.com", Password: "wrong-pass"}, LoginMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(LoginInput{Email: "nobody@example.com", Password: "secret123"}, LoginMeta{})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	result, err := env.auth.Login(LoginInput{Email: " B.TRAN@example.com ", Password: "secret123"}, LoginMeta{})
	require.NoError(t, err)
	require.NotNil(t, result.Account.LastLoginAt)

	claims, err := env.auth.ParseJWT(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Account.ID, claims.AccountID)
	assert.Equal(t, constants.RoleCustomer, claims.Role)

	_, err = env.auth.VerifyTokenState(ctx, claims)
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(result.Account.ID))
	_, err = env.auth.VerifyTokenState(ctx, claims)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = env.auth.ParseJWT(result.Token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t)

	_, err := env.accounts.UpdateStatus(customer.ID, "inactive")
	require.NoError(t, err)

	_, err = env.auth.Login(LoginInput{Email: customer.Email, Password: "secret123"}, LoginMeta{})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestChangePasswordRevokesTokens(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t)

	assert.ErrorIs(t, env.auth.ChangePassword(customer.ID, "not-current", "newsecret1"), ErrInvalidPassword)
	assert.ErrorIs(t, env.auth.ChangePassword(customer.ID, "secret123", "123"), ErrValidation)

	require.NoError(t, env.auth.ChangePassword(customer.ID, "secret123", "newsecret1"))
	_, err := env.auth.Login(LoginInput{Email: customer.Email, Password: "secret123"}, LoginMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(LoginInput{Email: customer.Email, Password: "newsecret1"}, LoginMeta{})
	assert.NoError(t, err)
}

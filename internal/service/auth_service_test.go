package service

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.auth.Register(ctx, RegisterInput{Username: "alice", Email: " Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.Email)

	_, err = e.auth.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)
	_, err = e.auth.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrWeakPassword)
	_, err = e.auth.Register(ctx, RegisterInput{Username: " ", Email: "bob@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrMissingFields)

	got, err := e.auth.Login(ctx, LoginInput{Email: "ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.UserID, got.UserID)

	_, err = e.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_ResetMailEscapesUsername(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.auth.Register(ctx, RegisterInput{Username: `<b onclick="x">dave</b>`, Email: "dave@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, e.auth.ForgotPassword(ctx, "dave@example.com"))
	require.Len(t, e.mail.sent, 1)
	body := e.mail.sent[0].body
	assert.Contains(t, body, `Hi &lt;b onclick=&#34;x&#34;&gt;dave&lt;/b&gt;,`)
	assert.False(t, strings.Contains(body, "<b"))
	assert.Len(t, tokenRe.FindStringSubmatch(body), 2)
}

var tokenRe = regexp.MustCompile(`token=([^"&]+)`)

func TestAuth_PasswordReset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.auth.Register(ctx, RegisterInput{Username: "carol", Email: "carol@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, e.auth.ForgotPassword(ctx, "unknown@example.com"))
	assert.Empty(t, e.mail.sent)

	require.NoError(t, e.auth.ForgotPassword(ctx, "carol@example.com"))
	require.Len(t, e.mail.sent, 1)
	assert.Equal(t, "carol@example.com", e.mail.sent[0].to)
	m := tokenRe.FindStringSubmatch(e.mail.sent[0].body)
	require.Len(t, m, 2)
	tok, err := url.QueryUnescape(m[1])
	require.NoError(t, err)

	assert.ErrorIs(t, e.auth.ResetPassword(ctx, tok, "123"), ErrWeakPassword)
	require.NoError(t, e.auth.ResetPassword(ctx, tok, "newsecret"))
	assert.ErrorIs(t, e.auth.ResetPassword(ctx, tok, "another1"), ErrInvalidResetToken)
	assert.ErrorIs(t, e.auth.ResetPassword(ctx, "bogus", "another1"), ErrInvalidResetToken)

	_, err = e.auth.Login(ctx, LoginInput{Email: "carol@example.com", Password: "newsecret"})
	require.NoError(t, err)
	_, err = e.auth.Login(ctx, LoginInput{Email: "carol@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

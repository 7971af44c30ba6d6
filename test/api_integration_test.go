package test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)
	user := registerUser(t, app, "logincheck")

	// Re-login with the same credentials
	var loginResp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	status := doJSON(t, app, jsonReq(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "TestPass123!@#",
	}), nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	me := struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}{}
	status = doJSON(t, app, authReq(t, http.MethodGet, "/api/users/me", user.Token, nil), &me)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, user.ID, me.ID)

	status = doJSON(t, app, jsonReq(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    me.Email,
		"password": "TestPass123!@#",
	}), &loginResp)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, loginResp.Token)
	assert.Equal(t, user.ID, loginResp.User.ID)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	status := doJSON(t, app, jsonReq(t, http.MethodGet, "/api/users/me", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req := authReq(t, http.MethodGet, "/api/friends/", "not-a-real-token", nil)
	status = doJSON(t, app, req, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestFullMessagingFlow(t *testing.T) {
	app := newTestApp(t)

	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")

	// Friend request, pending on both sides
	var friendship struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	status := doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d", bob.ID), alice.Token, nil),
		&friendship)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", friendship.Status)

	var pending []struct {
		ID uint `json:"id"`
	}
	status = doJSON(t, app, authReq(t, http.MethodGet, "/api/friends/requests", bob.Token, nil), &pending)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, pending, 1)
	assert.Equal(t, friendship.ID, pending[0].ID)

	// Messaging before acceptance is refused
	status = doJSON(t, app, authReq(t, http.MethodPost, "/api/messages/send", alice.Token, map[string]any{
		"receiver_id": bob.ID,
		"content":     "too soon",
	}), nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Accept and verify both friend lists
	status = doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", friendship.ID), bob.Token, nil),
		&friendship)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "accepted", friendship.Status)

	var friends []struct {
		ID uint `json:"id"`
	}
	status = doJSON(t, app, authReq(t, http.MethodGet, "/api/friends/", alice.Token, nil), &friends)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	// Direct messages flow both ways
	var sent struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	status = doJSON(t, app, authReq(t, http.MethodPost, "/api/messages/send", alice.Token, map[string]any{
		"receiver_id": bob.ID,
		"content":     "hey bob",
	}), &sent)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "sent", sent.Status)

	status = doJSON(t, app, authReq(t, http.MethodPost, "/api/messages/send", bob.Token, map[string]any{
		"receiver_id": alice.ID,
		"content":     "hey alice",
	}), nil)
	require.Equal(t, http.StatusCreated, status)

	var conversation []struct {
		Content string `json:"content"`
	}
	status = doJSON(t, app,
		authReq(t, http.MethodGet, fmt.Sprintf("/api/messages/conversation/%d", bob.ID), alice.Token, nil),
		&conversation)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, conversation, 2)
	assert.Equal(t, "hey alice", conversation[0].Content)

	// Receiver marks read
	var read struct {
		Status string `json:"status"`
	}
	status = doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/messages/%d/read", sent.ID), bob.Token, nil),
		&read)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "read", read.Status)

	var unread []struct {
		ID uint `json:"id"`
	}
	status = doJSON(t, app, authReq(t, http.MethodGet, "/api/messages/unread", bob.Token, nil), &unread)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, unread)
}

func TestVerifyEmailFlow(t *testing.T) {
	app := newTestApp(t)

	email := "verifyme_1@example.com"
	var registered struct {
		VerificationToken string `json:"verification_token"`
	}
	status := doJSON(t, app, jsonReq(t, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": "Verify",
		"last_name":  "Me",
		"email":      email,
		"password":   "TestPass123!@#",
	}), &registered)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, registered.VerificationToken)

	status = doJSON(t, app, jsonReq(t, http.MethodPost,
		"/api/auth/verify-email?token="+registered.VerificationToken, nil), nil)
	assert.Equal(t, http.StatusOK, status)

	// Token is single-use
	status = doJSON(t, app, jsonReq(t, http.MethodPost,
		"/api/auth/verify-email?token="+registered.VerificationToken, nil), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

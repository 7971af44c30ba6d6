package test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupLifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := registerUser(t, app, "grpalice")
	bob := registerUser(t, app, "grpbob")
	carol := registerUser(t, app, "grpcarol")

	// Create with one initial member besides the creator
	var group struct {
		ID      uint   `json:"id"`
		Name    string `json:"name"`
		Members []struct {
			UserID uint `json:"user_id"`
		} `json:"members"`
	}
	status := doJSON(t, app, authReq(t, http.MethodPost, "/api/groups/create", alice.Token, map[string]any{
		"name":       "weekend plans",
		"member_ids": []uint{bob.ID},
	}), &group)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "weekend plans", group.Name)
	require.Len(t, group.Members, 2)
	assert.Equal(t, alice.ID, group.Members[0].UserID)

	// Outsiders cannot read or post
	status = doJSON(t, app,
		authReq(t, http.MethodGet, fmt.Sprintf("/api/groups/%d", group.ID), carol.Token, nil), nil)
	assert.Equal(t, http.StatusForbidden, status)
	status = doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/groups/%d/send", group.ID), carol.Token, map[string]string{
			"content": "lurking",
		}), nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Any member can add others
	status = doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/groups/%d/add-member", group.ID), bob.Token, map[string]any{
			"user_id": carol.ID,
		}), nil)
	require.Equal(t, http.StatusOK, status)
	status = doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/groups/%d/add-member", group.ID), bob.Token, map[string]any{
			"user_id": carol.ID,
		}), nil)
	assert.Equal(t, http.StatusConflict, status)

	// Group messaging no longer requires pairwise friendship
	status = doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/groups/%d/send", group.ID), carol.Token, map[string]string{
			"content": "thanks for the add",
		}), nil)
	require.Equal(t, http.StatusCreated, status)

	var history []struct {
		SenderID uint   `json:"sender_id"`
		Content  string `json:"content"`
	}
	status = doJSON(t, app,
		authReq(t, http.MethodGet, fmt.Sprintf("/api/groups/%d/messages", group.ID), alice.Token, nil),
		&history)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, history, 1)
	assert.Equal(t, carol.ID, history[0].SenderID)

	var counted struct {
		Count int64 `json:"count"`
	}
	status = doJSON(t, app,
		authReq(t, http.MethodGet, fmt.Sprintf("/api/groups/%d/messages/count", group.ID), bob.Token, nil),
		&counted)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, counted.Count)

	// Members appear in each member's group list
	var mine []struct {
		ID uint `json:"id"`
	}
	status = doJSON(t, app, authReq(t, http.MethodGet, "/api/groups/mine", carol.Token, nil), &mine)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, mine, 1)
	assert.Equal(t, group.ID, mine[0].ID)
}

func TestGroupMembershipRules(t *testing.T) {
	app := newTestApp(t)
	alice := registerUser(t, app, "rulealice")
	bob := registerUser(t, app, "rulebob")
	carol := registerUser(t, app, "rulecarol")

	var group struct {
		ID uint `json:"id"`
	}
	status := doJSON(t, app, authReq(t, http.MethodPost, "/api/groups/create", alice.Token, map[string]any{
		"name":       "book club",
		"member_ids": []uint{bob.ID},
	}), &group)
	require.Equal(t, http.StatusCreated, status)

	// Removing someone who is not a member
	status = doJSON(t, app,
		authReq(t, http.MethodDelete, fmt.Sprintf("/api/groups/%d/members/%d", group.ID, carol.ID), alice.Token, nil), nil)
	assert.Equal(t, http.StatusConflict, status)

	// Leave down to one member, then the last seat is protected
	status = doJSON(t, app,
		authReq(t, http.MethodDelete, fmt.Sprintf("/api/groups/%d/members/%d", group.ID, bob.ID), bob.Token, nil), nil)
	require.Equal(t, http.StatusOK, status)

	status = doJSON(t, app,
		authReq(t, http.MethodDelete, fmt.Sprintf("/api/groups/%d/members/%d", group.ID, alice.ID), alice.Token, nil), nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestDeleteGroupCreatorOnly(t *testing.T) {
	app := newTestApp(t)
	alice := registerUser(t, app, "delalice")
	bob := registerUser(t, app, "delbob")

	var group struct {
		ID uint `json:"id"`
	}
	status := doJSON(t, app, authReq(t, http.MethodPost, "/api/groups/create", alice.Token, map[string]any{
		"name":       "short lived",
		"member_ids": []uint{bob.ID},
	}), &group)
	require.Equal(t, http.StatusCreated, status)

	status = doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/groups/%d/send", group.ID), bob.Token, map[string]string{
			"content": "first and last",
		}), nil)
	require.Equal(t, http.StatusCreated, status)

	status = doJSON(t, app,
		authReq(t, http.MethodDelete, fmt.Sprintf("/api/groups/%d", group.ID), bob.Token, nil), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status = doJSON(t, app,
		authReq(t, http.MethodDelete, fmt.Sprintf("/api/groups/%d", group.ID), alice.Token, nil), nil)
	require.Equal(t, http.StatusOK, status)

	status = doJSON(t, app,
		authReq(t, http.MethodGet, fmt.Sprintf("/api/groups/%d", group.ID), alice.Token, nil), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceScenario(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	tokenA, idA := signup(t, app, "Alaa", "a@x.com", "+962791234567")

	created := doRequest(t, app, http.MethodPost, "/api/posts", tokenA, map[string]any{
		"title":     "Denim Jacket",
		"tradeType": "sale",
		"price":     12,
		"size":      "M",
	})
	require.Equal(t, http.StatusCreated, created.Status, string(created.Raw))
	postID := uint(created.Body["post"].(map[string]any)["id"].(float64))

	listed := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/posts?userId=%d", idA), "", nil)
	require.Equal(t, http.StatusOK, listed.Status)
	posts := listed.Body["posts"].([]any)
	require.Len(t, posts, 1)
	post := posts[0].(map[string]any)
	assert.Equal(t, float64(12), post["price"])
	assert.Equal(t, "Alaa", post["sellerName"])
	assert.Nil(t, post["sellerRating"])

	tokenB, idB := signup(t, app, "Bushra", "b@x.com", "+962781234567")

	favPath := fmt.Sprintf("/api/favorites/%d", postID)
	first := doRequest(t, app, http.MethodPost, favPath, tokenB, nil)
	require.Equal(t, http.StatusOK, first.Status, string(first.Raw))
	assert.Equal(t, true, first.Body["favorited"])

	favs := doRequest(t, app, http.MethodGet, "/api/favorites", tokenB, nil)
	assert.Len(t, favs.Body["posts"].([]any), 1)

	second := doRequest(t, app, http.MethodPost, favPath, tokenB, nil)
	assert.Equal(t, false, second.Body["favorited"])

	sent := doRequest(t, app, http.MethodPost, "/api/messages", tokenB, map[string]any{
		"toUserId": idA,
		"content":  "Is the jacket still available?",
		"postId":   postID,
	})
	require.Equal(t, http.StatusCreated, sent.Status, string(sent.Raw))
	assert.NotZero(t, sent.Body["id"])

	threads := doRequest(t, app, http.MethodGet, "/api/messages/threads", tokenA, nil)
	require.Equal(t, http.StatusOK, threads.Status)
	list := threads.Body["threads"].([]any)
	require.Len(t, list, 1)
	thread := list[0].(map[string]any)
	assert.Equal(t, float64(idB), thread["otherUserId"])
	assert.Equal(t, "Is the jacket still available?", thread["lastMessage"])

	convo := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/messages?withUserId=%d", idB), tokenA, nil)
	msgs := convo.Body["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Bushra", msgs[0].(map[string]any)["fromName"])

	notes := doRequest(t, app, http.MethodGet, "/api/notifications", tokenA, nil)
	var messageNote map[string]any
	for _, n := range notes.Body["notifications"].([]any) {
		if m := n.(map[string]any); m["type"] == "message" {
			messageNote = m
		}
	}
	require.NotNil(t, messageNote)
	assert.Equal(t, false, messageNote["isRead"])
	assert.Equal(t, "New message from Bushra.", messageNote["message"])

	read := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", int(messageNote["id"].(float64))), tokenA, nil)
	assert.Equal(t, true, read.Body["ok"])

	rated := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/rate", idA), tokenB, map[string]any{"stars": 4})
	require.Equal(t, http.StatusOK, rated.Status, string(rated.Raw))
	assert.Equal(t, float64(4), rated.Body["ratingAvg"])
	assert.Equal(t, float64(1), rated.Body["ratingCount"])

	again := doRequest(t, app, http.MethodPost, "/api/ratings", tokenB, map[string]any{"rateeId": idA, "stars": "5"})
	require.Equal(t, http.StatusOK, again.Status, string(again.Raw))

	detail := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), "", nil)
	assert.Equal(t, 4.5, detail.Body["post"].(map[string]any)["sellerRating"])

	self := doRequest(t, app, http.MethodPost, "/api/ratings", tokenA, map[string]any{"rateeId": idA, "stars": 5})
	assert.Equal(t, http.StatusBadRequest, self.Status)
	assert.Equal(t, "cannot rate yourself", self.Body["error"])

	login := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "password1",
	})
	assert.Equal(t, http.StatusOK, login.Status)
}

func TestAccountEndpoints(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())
	token, id := signup(t, app, "Lina", "lina@x.com", "+962771234567")
	signup(t, app, "Other", "taken@x.com", "+962771234568")

	me := doRequest(t, app, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, me.Status)
	assert.Equal(t, float64(id), me.Body["user"].(map[string]any)["id"])

	assert.Equal(t, http.StatusOK, doRequest(t, app, http.MethodPut, "/api/me", token, map[string]string{"name": "Lina K"}).Status)

	dup := doRequest(t, app, http.MethodPut, "/api/me/email", token, map[string]string{"email": "TAKEN@x.com"})
	assert.Equal(t, http.StatusConflict, dup.Status)
	assert.Equal(t, "Email already in use", dup.Body["error"])

	badPhone := doRequest(t, app, http.MethodPut, "/api/me/contact", token, map[string]string{"contact": "0791234567"})
	assert.Equal(t, http.StatusBadRequest, badPhone.Status)

	wrongOld := doRequest(t, app, http.MethodPut, "/api/me/password", token, map[string]string{
		"oldPassword": "nope", "newPassword": "newpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongOld.Status)
	assert.Equal(t, "Old password incorrect", wrongOld.Body["error"])

	changed := doRequest(t, app, http.MethodPut, "/api/me/password", token, map[string]string{
		"oldPassword": "password1", "newPassword": "newpass1",
	})
	assert.Equal(t, http.StatusOK, changed.Status)

	login := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "lina@x.com", "password": "newpass1",
	})
	assert.Equal(t, http.StatusOK, login.Status)

	profile := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", id), "", nil)
	require.Equal(t, http.StatusOK, profile.Status)
	assert.Equal(t, "Lina K", profile.Body["user"].(map[string]any)["name"])
}

func TestPostValidationAndNotFound(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())
	token, _ := signup(t, app, "Omar", "omar@x.com", "+962791111111")

	missing := doRequest(t, app, http.MethodPost, "/api/posts", token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, missing.Status)
	assert.Equal(t, "title and tradeType required", missing.Body["error"])

	badCategory := doRequest(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "x", "tradeType": "free", "categoryId": "999",
	})
	assert.Equal(t, http.StatusBadRequest, badCategory.Status)

	exchange := doRequest(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Men Jeans", "tradeType": "exchange", "price": "32",
	})
	require.Equal(t, http.StatusCreated, exchange.Status)
	assert.Equal(t, float64(32), exchange.Body["post"].(map[string]any)["price"])

	notFound := doRequest(t, app, http.MethodGet, "/api/posts/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, "not found", notFound.Body["error"])

	badID := doRequest(t, app, http.MethodGet, "/api/posts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, badID.Status)

	favMissing := doRequest(t, app, http.MethodPost, "/api/favorites/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, favMissing.Status)

	noCounterpart := doRequest(t, app, http.MethodGet, "/api/messages", token, nil)
	assert.Equal(t, http.StatusBadRequest, noCounterpart.Status)
	assert.Equal(t, "withUserId required", noCounterpart.Body["error"])
}

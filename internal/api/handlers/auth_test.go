package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pulseapp/auth-service/internal/api/handlers"
	"github.com/pulseapp/auth-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func authedRequest(t *testing.T, method, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestLoginEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	ts.DB.Truncate(t)
	user, password := testutil.NewUserBuilder().WithEmail("user@x.com").Build(t, ts.DB.DB)
	testutil.NewUserBuilder().WithEmail("unverified@x.com").WithPassword("password123").Unverified().Build(t, ts.DB.DB)

	t.Run("success", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/login"), map[string]interface{}{
			"email":      "  USER@X.COM  ",
			"password":   password,
			"deviceInfo": map[string]string{"userAgent": "go-test"},
		})
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var bundle handlers.TokenBundleResponse
		testutil.AssertJSONResponse(t, resp, &bundle)
		assert.Equal(t, user.ID.String(), bundle.UserID)
		assert.Equal(t, "user@x.com", bundle.Email)
		assert.NotEmpty(t, bundle.AccessToken)
		assert.NotEmpty(t, bundle.RefreshToken)
		assert.Equal(t, "Login successful", bundle.Message)
	})

	t.Run("unknown email and wrong password share one message", func(t *testing.T) {
		respUnknown := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
			"email": "ghost@x.com", "password": "whatever1",
		})
		defer respUnknown.Body.Close()
		testutil.AssertErrorResponse(t, respUnknown, http.StatusUnauthorized, "Incorrect email or password")

		respWrong := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
			"email": "user@x.com", "password": "not-the-password",
		})
		defer respWrong.Body.Close()
		testutil.AssertErrorResponse(t, respWrong, http.StatusUnauthorized, "Incorrect email or password")
	})

	t.Run("unverified email", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
			"email": "unverified@x.com", "password": "password123",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Please verify your email before logging in")
	})

	t.Run("missing password", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/login"), map[string]string{"email": "user@x.com"})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Password is required")
	})
}

func TestSessionEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)

	login := func(t *testing.T) handlers.TokenBundleResponse {
		t.Helper()
		ts.DB.Truncate(t)
		_, password := testutil.NewUserBuilder().WithEmail("user@x.com").Build(t, ts.DB.DB)

		resp := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
			"email": "user@x.com", "password": password,
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var bundle handlers.TokenBundleResponse
		testutil.AssertJSONResponse(t, resp, &bundle)
		return bundle
	}

	t.Run("me returns the authenticated user", func(t *testing.T) {
		bundle := login(t)

		resp := authedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), bundle.AccessToken)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var user handlers.UserResponse
		testutil.AssertJSONResponse(t, resp, &user)
		assert.Equal(t, bundle.UserID, user.ID)
		assert.True(t, user.IsEmailVerified)
	})

	t.Run("me without token", func(t *testing.T) {
		login(t)

		resp, err := http.Get(ts.APIURL("/auth/me"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("refresh rotates tokens", func(t *testing.T) {
		bundle := login(t)

		resp := postJSON(t, ts.APIURL("/auth/refresh"), map[string]string{"refreshToken": bundle.RefreshToken})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var refreshed handlers.TokenBundleResponse
		testutil.AssertJSONResponse(t, resp, &refreshed)
		assert.NotEqual(t, bundle.RefreshToken, refreshed.RefreshToken)

		// Replaying the old refresh token fails
		replay := postJSON(t, ts.APIURL("/auth/refresh"), map[string]string{"refreshToken": bundle.RefreshToken})
		defer replay.Body.Close()
		testutil.AssertErrorResponse(t, replay, http.StatusUnauthorized, "Invalid or expired refresh token")
	})

	t.Run("logout with refresh token", func(t *testing.T) {
		bundle := login(t)

		resp := postJSON(t, ts.APIURL("/auth/logout"), map[string]string{"refreshToken": bundle.RefreshToken})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		replay := postJSON(t, ts.APIURL("/auth/refresh"), map[string]string{"refreshToken": bundle.RefreshToken})
		defer replay.Body.Close()
		testutil.AssertStatusCode(t, replay, http.StatusUnauthorized)
	})

	t.Run("logout via bearer token resolves current session", func(t *testing.T) {
		bundle := login(t)

		req, err := http.NewRequest(http.MethodPost, ts.APIURL("/auth/logout"), bytes.NewReader([]byte("{}")))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+bundle.AccessToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		// No session left: the same call now reports it
		req2, err := http.NewRequest(http.MethodPost, ts.APIURL("/auth/logout"), bytes.NewReader([]byte("{}")))
		require.NoError(t, err)
		req2.Header.Set("Authorization", "Bearer "+bundle.AccessToken)
		resp2, err := http.DefaultClient.Do(req2)
		require.NoError(t, err)
		defer resp2.Body.Close()
		testutil.AssertErrorResponse(t, resp2, http.StatusUnauthorized, "No active session found")
	})

	t.Run("logout-all clears every session", func(t *testing.T) {
		bundle := login(t)

		resp := authedRequest(t, http.MethodPost, ts.APIURL("/auth/logout-all"), bundle.AccessToken)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		replay := postJSON(t, ts.APIURL("/auth/refresh"), map[string]string{"refreshToken": bundle.RefreshToken})
		defer replay.Body.Close()
		testutil.AssertStatusCode(t, replay, http.StatusUnauthorized)
	})
}

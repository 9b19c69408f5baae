/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nethesis/memorial-api/audit"
	"github.com/nethesis/memorial-api/configuration"
	"github.com/nethesis/memorial-api/logs"
	"github.com/nethesis/memorial-api/middleware"
	"github.com/nethesis/memorial-api/models"
	"github.com/nethesis/memorial-api/store"
	"github.com/nethesis/memorial-api/utils"
)

var testServer *httptest.Server
var testAudits *store.MemoryAudits

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logs.Init("memorial-api-test")

	os.Setenv("LISTEN_ADDRESS", "127.0.0.1:0")
	os.Setenv("SECRET", "test-secret")
	os.Setenv("ADMIN_USERNAME", "admin")
	os.Setenv("ADMIN_PASSWORD", "testpass")
	os.Setenv("MAX_REQUEST_BYTES", "1024")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "10000")
	os.Setenv("REGISTER_LIMIT_PER_MINUTE", "10000")
	configuration.Init()

	volunteers := store.NewMemoryVolunteers()
	news := store.NewMemoryNews()
	testAudits = store.NewMemoryAudits()
	audit.Init(testAudits)

	apiLimiter := middleware.NewRateLimiter(configuration.Config.RateLimitPerMinute)
	registerLimiter := middleware.NewRateLimiter(configuration.Config.RegisterLimitPerMinute)
	loginLimiter := middleware.NewRateLimiter(configuration.Config.RegisterLimitPerMinute)

	router := createRouter(volunteers, news, apiLimiter, registerLimiter, loginLimiter)
	testServer = httptest.NewServer(router)
	defer testServer.Close()

	os.Exit(m.Run())
}

func doRequest(t *testing.T, method string, path string, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, testServer.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestHealth(t *testing.T) {
	resp, body := doRequest(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}

func TestUnknownEndpoint(t *testing.T) {
	resp, body := doRequest(t, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, false, body["success"])
	require.Equal(t, "endpoint not found", body["message"])
}

func TestOversizedBody(t *testing.T) {
	payload := map[string]string{
		"name":    "A",
		"email":   "big@x.com",
		"phone":   "9876543210",
		"message": strings.Repeat("x", 2048),
	}
	resp, body := doRequest(t, http.MethodPost, "/api/register-volunteer", "", payload)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	require.Equal(t, false, body["success"])
}

func TestVolunteerLifecycle(t *testing.T) {
	// public registration
	resp, body := doRequest(t, http.MethodPost, "/api/register-volunteer", "", map[string]string{
		"name": "A", "email": "a@x.com", "phone": "9876543210",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, body["success"])
	volunteerID := body["data"].(map[string]any)["id"].(string)
	require.NotEmpty(t, volunteerID)

	// duplicate email is rejected
	resp, _ = doRequest(t, http.MethodPost, "/api/register-volunteer", "", map[string]string{
		"name": "B", "email": "a@x.com", "phone": "9876543299",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// malformed input is rejected before the store
	resp, _ = doRequest(t, http.MethodPost, "/api/register-volunteer", "", map[string]string{
		"name": "C", "email": "not-an-email", "phone": "9876543211",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doRequest(t, http.MethodPost, "/api/register-volunteer", "", map[string]string{
		"name": "C", "email": "c@x.com", "phone": "12345",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// admin surface is gated
	resp, body = doRequest(t, http.MethodGet, "/api/volunteers", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "missing token", body["message"])

	// wrong credentials do not yield a token
	require.Empty(t, utils.PerformLogin(testServer.URL, "admin", "wrong"))

	token := utils.PerformLogin(testServer.URL, "admin", "testpass")
	require.NotEmpty(t, token)

	// authenticated listing sees the registration
	resp, body = doRequest(t, http.MethodGet, "/api/volunteers?search=a@x.com", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	require.Equal(t, float64(1), data["total"])
	require.Equal(t, "A", data["volunteers"].([]any)[0].(map[string]any)["name"])

	// stats count the registration
	resp, body = doRequest(t, http.MethodGet, "/api/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	require.Equal(t, float64(1), data["total"])
	require.Equal(t, float64(1), data["today"])

	// csv export carries a header row plus the record
	req, err := http.NewRequest(http.MethodGet, testServer.URL+"/api/volunteers/export", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	csvResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer csvResp.Body.Close()
	require.Equal(t, http.StatusOK, csvResp.StatusCode)
	require.Contains(t, csvResp.Header.Get("Content-Disposition"), "volunteers.csv")
	rows, err := csv.NewReader(csvResp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "a@x.com", rows[1][2])

	// delete the volunteer, then the id is gone
	resp, _ = doRequest(t, http.MethodDelete, "/api/volunteers/"+volunteerID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doRequest(t, http.MethodDelete, "/api/volunteers/"+volunteerID, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// every admin action left an audit entry
	actions := map[string]bool{}
	for _, entry := range testAudits.Entries() {
		require.Equal(t, "admin", entry.Admin)
		actions[entry.Action] = true
	}
	require.True(t, actions[models.ActionLogin])
	require.True(t, actions[models.ActionExportCSV])
	require.True(t, actions[models.ActionDeleteVolunteer])
}

func TestNewsLifecycle(t *testing.T) {
	// the feed is public
	resp, body := doRequest(t, http.MethodGet, "/api/news", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	// publishing requires a token
	resp, _ = doRequest(t, http.MethodPost, "/api/news", "", map[string]string{
		"title": "Nope", "content": "unauthenticated",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := utils.PerformLogin(testServer.URL, "admin", "testpass")
	require.NotEmpty(t, token)

	resp, body = doRequest(t, http.MethodPost, "/api/news", token, map[string]string{
		"title": "Memorial day", "content": "Gathering at noon.", "image": "data:image/png;base64,abc",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	newsID := body["data"].(map[string]any)["id"].(string)

	resp, body = doRequest(t, http.MethodGet, "/api/news", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["data"].(map[string]any)["news"].([]any)
	require.Len(t, items, 1)
	entry := items[0].(map[string]any)
	require.Equal(t, "Memorial day", entry["title"])
	require.NotEmpty(t, entry["date"])

	resp, _ = doRequest(t, http.MethodDelete, "/api/news/"+newsID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doRequest(t, http.MethodDelete, "/api/news/"+newsID, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doRequest(t, http.MethodGet, "/api/news", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body["data"].(map[string]any)["news"])
}

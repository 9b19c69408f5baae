/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nethesis/memorial-api/audit"
	"github.com/nethesis/memorial-api/configuration"
	"github.com/nethesis/memorial-api/models"
	"github.com/nethesis/memorial-api/store"
)

func setupAuthTest(t *testing.T) (*gin.Engine, *store.MemoryAudits) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	configuration.Config.Secret = "test-secret"
	configuration.Config.AdminUsername = "admin"
	hash, err := bcrypt.GenerateFromPassword([]byte("testpass"), bcrypt.MinCost)
	require.NoError(t, err)
	configuration.Config.AdminPasswordHash = hash

	audits := store.NewMemoryAudits()
	audit.Init(audits)

	authMiddleware := InitJWT()
	router := gin.New()
	router.POST("/api/admin/login", authMiddleware.LoginHandler)
	protected := router.Group("/api")
	protected.Use(authMiddleware.MiddlewareFunc())
	protected.GET("/volunteers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router, audits
}

func doLogin(t *testing.T, router *gin.Engine, username string, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func doProtected(t *testing.T, router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/volunteers", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLoginSuccess(t *testing.T) {
	router, audits := setupAuthTest(t)

	w := doLogin(t, router, "admin", "testpass")
	require.Equal(t, http.StatusOK, w.Code)

	resp := envelope(t, w)
	require.Equal(t, true, resp["success"])
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	require.NotEmpty(t, data["expire"])

	// login success is audited
	entries := audits.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, models.ActionLogin, entries[0].Action)
	require.Equal(t, "admin", entries[0].Admin)
}

func TestLoginFailureIsUniform(t *testing.T) {
	router, audits := setupAuthTest(t)

	wrongPassword := doLogin(t, router, "admin", "wrong")
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)

	unknownUser := doLogin(t, router, "nobody", "testpass")
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)

	// unknown user and wrong password are indistinguishable
	require.Equal(t, envelope(t, wrongPassword)["message"], envelope(t, unknownUser)["message"])
	require.Equal(t, false, envelope(t, wrongPassword)["success"])

	// failed logins are not audited
	require.Empty(t, audits.Entries())
}

func TestProtectedRouteTokenChecks(t *testing.T) {
	router, _ := setupAuthTest(t)

	// no token
	w := doProtected(t, router, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "missing token", envelope(t, w)["message"])

	// malformed token
	w = doProtected(t, router, "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid token", envelope(t, w)["message"])

	// token signed with another secret
	w = doProtected(t, router, "Bearer "+issueTestToken(t, "other-secret", time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid token", envelope(t, w)["message"])

	// expired token
	w = doProtected(t, router, "Bearer "+issueTestToken(t, "test-secret", time.Now().Add(-time.Minute)))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "token expired", envelope(t, w)["message"])

	// valid token issued by login
	loginResp := envelope(t, doLogin(t, router, "admin", "testpass"))
	token := loginResp["data"].(map[string]any)["token"].(string)
	w = doProtected(t, router, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
}

func issueTestToken(t *testing.T, secret string, expire time.Time) string {
	t.Helper()
	now := time.Now()
	claims := jwtv5.MapClaims{
		"id":       "admin",
		"role":     "admin",
		"exp":      expire.Unix(),
		"orig_iat": now.Add(-3 * time.Hour).Unix(),
	}
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

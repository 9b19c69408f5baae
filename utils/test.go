/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// PerformLogin authenticates against a running test server and returns the
// bearer token, or an empty string on any failure.
func PerformLogin(testServerURL string, username string, password string) string {
	loginData := map[string]string{
		"username": username,
		"password": password,
	}
	jsonData, _ := json.Marshal(loginData)

	resp, err := http.Post(testServerURL+"/api/admin/login", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	var response map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&response)

	data, _ := response["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	return token
}

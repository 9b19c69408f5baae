/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package configuration

import (
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

type Configuration struct {
	ListenAddress          string `json:"listen_address"`
	Secret                 string `json:"secret"`
	AdminUsername          string `json:"admin_username"`
	AdminPasswordHash      []byte `json:"-"`
	MongoURI               string `json:"mongo_uri"`
	MongoDatabase          string `json:"mongo_database"`
	MaxRequestBytes        int64  `json:"max_request_bytes"`
	MaxPageSize            int64  `json:"max_page_size"`
	RateLimitPerMinute     int    `json:"rate_limit_per_minute"`
	RegisterLimitPerMinute int    `json:"register_limit_per_minute"`
}

var Config = Configuration{}

func Init() {
	// read configuration from ENV
	if os.Getenv("LISTEN_ADDRESS") != "" {
		Config.ListenAddress = os.Getenv("LISTEN_ADDRESS")
	} else {
		Config.ListenAddress = "127.0.0.1:8080"
	}

	// set token signing secret
	if os.Getenv("SECRET") != "" {
		Config.Secret = os.Getenv("SECRET")
	} else {
		os.Stderr.WriteString("SECRET variable is empty. ")
		os.Exit(1)
	}

	// set admin username
	if os.Getenv("ADMIN_USERNAME") != "" {
		Config.AdminUsername = os.Getenv("ADMIN_USERNAME")
	} else {
		os.Stderr.WriteString("ADMIN_USERNAME variable is empty. ")
		os.Exit(1)
	}

	// set admin credential. ADMIN_PASSWORD_HASH takes precedence; a plaintext
	// ADMIN_PASSWORD is hashed here once and never retained
	if os.Getenv("ADMIN_PASSWORD_HASH") != "" {
		Config.AdminPasswordHash = []byte(os.Getenv("ADMIN_PASSWORD_HASH"))
	} else if os.Getenv("ADMIN_PASSWORD") != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(os.Getenv("ADMIN_PASSWORD")), bcrypt.DefaultCost)
		if err != nil {
			os.Stderr.WriteString("cannot hash ADMIN_PASSWORD. ")
			os.Exit(1)
		}
		Config.AdminPasswordHash = hash
	} else {
		os.Stderr.WriteString("ADMIN_PASSWORD_HASH and ADMIN_PASSWORD variables are empty. ")
		os.Exit(1)
	}

	// set mongodb connection string
	if os.Getenv("MONGODB_URI") != "" {
		Config.MongoURI = os.Getenv("MONGODB_URI")
	} else {
		Config.MongoURI = "mongodb://127.0.0.1:27017"
	}

	// set mongodb database name
	if os.Getenv("MONGODB_DATABASE") != "" {
		Config.MongoDatabase = os.Getenv("MONGODB_DATABASE")
	} else {
		Config.MongoDatabase = "memorial"
	}

	// set request body ceiling
	if os.Getenv("MAX_REQUEST_BYTES") != "" {
		Config.MaxRequestBytes = int64Env("MAX_REQUEST_BYTES", 5<<20)
	} else {
		Config.MaxRequestBytes = 5 << 20 // 5 MiB
	}

	// set pagination ceiling
	if os.Getenv("MAX_PAGE_SIZE") != "" {
		Config.MaxPageSize = int64Env("MAX_PAGE_SIZE", 100)
	} else {
		Config.MaxPageSize = 100
	}

	// set service-wide rate limit
	if os.Getenv("RATE_LIMIT_PER_MINUTE") != "" {
		Config.RateLimitPerMinute = intEnv("RATE_LIMIT_PER_MINUTE", 60)
	} else {
		Config.RateLimitPerMinute = 60
	}

	// set registration/login rate limit
	if os.Getenv("REGISTER_LIMIT_PER_MINUTE") != "" {
		Config.RegisterLimitPerMinute = intEnv("REGISTER_LIMIT_PER_MINUTE", 5)
	} else {
		Config.RegisterLimitPerMinute = 5
	}
}

func intEnv(name string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(name))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func int64Env(name string, fallback int64) int64 {
	parsed, err := strconv.ParseInt(os.Getenv(name), 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

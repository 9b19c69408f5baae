/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package middleware

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	jwt "github.com/appleboy/gin-jwt/v2"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/nethesis/memorial-api/audit"
	"github.com/nethesis/memorial-api/configuration"
	"github.com/nethesis/memorial-api/models"
	"github.com/nethesis/memorial-api/response"
	"github.com/nethesis/memorial-api/utils"
)

var jwtMiddleware *jwt.GinJWTMiddleware
var identityKey = "id"

func InstanceJWT() *jwt.GinJWTMiddleware {
	if jwtMiddleware == nil {
		jwtMiddleware = InitJWT()
	}
	return jwtMiddleware
}

func InitJWT() *jwt.GinJWTMiddleware {
	// define jwt middleware
	authMiddleware, errDefine := jwt.New(&jwt.GinJWTMiddleware{
		Realm:       "memorial",
		Key:         []byte(configuration.Config.Secret),
		Timeout:     time.Hour * 2,
		IdentityKey: identityKey,
		Authenticator: func(c *gin.Context) (interface{}, error) {
			// check login credentials exist
			var loginVals models.LoginJson
			if err := c.ShouldBind(&loginVals); err != nil {
				return "", jwt.ErrMissingLoginValues
			}

			// single configured admin account. the same error covers an
			// unknown username and a wrong password
			if loginVals.Username != configuration.Config.AdminUsername {
				return nil, jwt.ErrFailedAuthentication
			}
			if err := bcrypt.CompareHashAndPassword(configuration.Config.AdminPasswordHash, []byte(loginVals.Password)); err != nil {
				return nil, jwt.ErrFailedAuthentication
			}

			// store login action
			audit.Store(models.Audit{
				Admin:     loginVals.Username,
				Action:    models.ActionLogin,
				Details:   "admin logged in",
				Timestamp: time.Now().UTC(),
			})

			// return admin identity
			return &models.AdminIdentity{
				Username: loginVals.Username,
			}, nil
		},
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			// read current admin
			if admin, ok := data.(*models.AdminIdentity); ok {
				// create claims map
				return jwt.MapClaims{
					identityKey: admin.Username,
					"role":      "admin",
				}
			}

			// return claims map
			return jwt.MapClaims{}
		},
		IdentityHandler: func(c *gin.Context) interface{} {
			// handle identity and extract claims
			claims := jwt.ExtractClaims(c)

			// create admin object
			admin := &models.AdminIdentity{
				Username: claims[identityKey].(string),
			}

			// return admin
			return admin
		},
		Authorizator: func(data interface{}, c *gin.Context) bool {
			// the token must carry the configured admin identity
			if admin, ok := data.(*models.AdminIdentity); ok {
				return admin.Username == configuration.Config.AdminUsername
			}

			// not authorized
			return false
		},
		LoginResponse: func(c *gin.Context, code int, token string, t time.Time) {
			c.JSON(http.StatusOK, structs.Map(response.StatusOK{
				Success: true,
				Message: "login successful",
				Data:    gin.H{"token": token, "expire": t.Format(time.RFC3339)},
			}))
		},
		Unauthorized: func(c *gin.Context, code int, message string) {
			c.JSON(code, structs.Map(response.StatusUnauthorized{
				Success: false,
				Message: message,
				Data:    nil,
			}))
		},
		HTTPStatusMessageFunc: func(e error, c *gin.Context) string {
			// map verification failures to distinct stable messages
			switch {
			case errors.Is(e, jwt.ErrEmptyAuthHeader), errors.Is(e, jwt.ErrEmptyQueryToken):
				return "missing token"
			case errors.Is(e, jwt.ErrExpiredToken), errors.Is(e, jwtv5.ErrTokenExpired):
				return "token expired"
			case errors.Is(e, jwt.ErrMissingLoginValues), errors.Is(e, jwt.ErrFailedAuthentication):
				return "invalid credentials"
			case errors.Is(e, jwt.ErrForbidden):
				return "forbidden"
			default:
				return "invalid token"
			}
		},
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
	})

	// check middleware errors
	if errDefine != nil {
		utils.LogError(errors.Wrap(errDefine, "[AUTH] middleware definition error"))
	}

	// init middleware
	errInit := authMiddleware.MiddlewareInit()
	if errInit != nil {
		utils.LogError(errors.Wrap(errInit, "[AUTH] middleware initialization error"))
	}

	return authMiddleware
}

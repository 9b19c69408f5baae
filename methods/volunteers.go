/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nethesis/memorial-api/audit"
	"github.com/nethesis/memorial-api/configuration"
	"github.com/nethesis/memorial-api/models"
	"github.com/nethesis/memorial-api/response"
	"github.com/nethesis/memorial-api/store"
	"github.com/nethesis/memorial-api/utils"
)

// csvTimeLayout is the fixed timestamp format of the Registered At column.
const csvTimeLayout = "2006-01-02 15:04:05"

// requestContext bounds a store round trip to the request lifetime.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}

// adminUsername extracts the authenticated admin identity from JWT claims.
func adminUsername(c *gin.Context) string {
	claims := jwt.ExtractClaims(c)
	username, _ := claims["id"].(string)
	return username
}

// RegisterVolunteer godoc
// @Summary Register a new volunteer
// @Description public registration: name, email and phone required, message optional
// @Produce  json
// @Success 201 {object} response.StatusCreated{success=bool,message=string,data=object}
// @Failure 400 {object} response.StatusBadRequest{success=bool,message=string,data=object}
// @Failure 409 {object} response.StatusConflict{success=bool,message=string,data=object}
// @Router /api/register-volunteer [post]
// @Tags /api volunteers
func RegisterVolunteer(volunteers store.VolunteerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// get payload
		var jsonVolunteer models.VolunteerJson
		if err := c.ShouldBindJSON(&jsonVolunteer); err != nil {
			c.JSON(http.StatusBadRequest, structs.Map(response.StatusBadRequest{
				Success: false,
				Message: "invalid request body",
				Data:    nil,
			}))
			return
		}

		// validate in order: presence, email shape, phone shape. every check
		// rejects before any store access
		if jsonVolunteer.Name == "" || jsonVolunteer.Email == "" || jsonVolunteer.Phone == "" {
			c.JSON(http.StatusBadRequest, structs.Map(response.StatusBadRequest{
				Success: false,
				Message: "name, email and phone are required",
				Data:    nil,
			}))
			return
		}
		if !utils.ValidEmail(jsonVolunteer.Email) {
			c.JSON(http.StatusBadRequest, structs.Map(response.StatusBadRequest{
				Success: false,
				Message: "invalid email address",
				Data:    nil,
			}))
			return
		}
		if !utils.ValidPhone(jsonVolunteer.Phone) {
			c.JSON(http.StatusBadRequest, structs.Map(response.StatusBadRequest{
				Success: false,
				Message: "phone must be 10 or 12 digits",
				Data:    nil,
			}))
			return
		}

		volunteer := models.Volunteer{
			Name:         jsonVolunteer.Name,
			Email:        jsonVolunteer.Email,
			Phone:        jsonVolunteer.Phone,
			Message:      jsonVolunteer.Message,
			RegisteredAt: time.Now().UTC(),
		}

		// insert volunteer. uniqueness of email and phone is enforced by the
		// store indexes, there is no check-then-act window here
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := volunteers.Insert(ctx, &volunteer); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusConflict, structs.Map(response.StatusConflict{
					Success: false,
					Message: "email or phone already registered",
					Data:    nil,
				}))
				return
			}

			utils.LogError(errors.Wrap(err, "[VOLUNTEERS] registration insert error"))
			c.JSON(http.StatusInternalServerError, structs.Map(response.StatusInternalServerError{
				Success: false,
				Message: "server error",
				Data:    nil,
			}))
			return
		}

		c.JSON(http.StatusCreated, structs.Map(response.StatusCreated{
			Success: true,
			Message: "volunteer registered successfully",
			Data:    gin.H{"id": volunteer.ID.Hex()},
		}))
	}
}

// ListVolunteers godoc
// @Summary Get a page of volunteers
// @Description paginated listing, optional case-insensitive search on name, email or phone
// @Produce  json
// @Param page query int false "page number, starting at 1"
// @Param limit query int false "page size, capped at the configured maximum"
// @Param search query string false "substring match on name, email or phone"
// @Success 200 {object} response.StatusOK{success=bool,message=string,data=object}
// @Header 200 {string} Authorization "Bearer <valid.JWT.token>"
// @Router /api/volunteers [get]
// @Tags /api volunteers
func ListVolunteers(volunteers store.VolunteerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// get query params
		page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
		if err != nil || limit < 1 {
			limit = 10
		}
		if limit > configuration.Config.MaxPageSize {
			limit = configuration.Config.MaxPageSize
		}
		search := c.Query("search")

		ctx, cancel := requestContext(c)
		defer cancel()
		records, total, err := volunteers.List(ctx, store.VolunteerFilter{
			Search: search,
			Skip:   (page - 1) * limit,
			Limit:  limit,
		})
		if err != nil {
			utils.LogError(errors.Wrap(err, "[VOLUNTEERS] listing error"))
			c.JSON(http.StatusInternalServerError, structs.Map(response.StatusInternalServerError{
				Success: false,
				Message: "server error",
				Data:    nil,
			}))
			return
		}

		c.JSON(http.StatusOK, structs.Map(response.StatusOK{
			Success: true,
			Message: "success",
			Data: gin.H{
				"volunteers": records,
				"total":      total,
				"page":       page,
				"limit":      limit,
			},
		}))
	}
}

// DeleteVolunteer godoc
// @Summary Delete one volunteer by id
// @Produce  json
// @Param id path string true "volunteer id"
// @Success 200 {object} response.StatusOK{success=bool,message=string,data=object}
// @Failure 404 {object} response.StatusNotFound{success=bool,message=string,data=object}
// @Header 200 {string} Authorization "Bearer <valid.JWT.token>"
// @Router /api/volunteers/{id} [delete]
// @Tags /api volunteers
func DeleteVolunteer(volunteers store.VolunteerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		ctx, cancel := requestContext(c)
		defer cancel()
		if err := volunteers.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, structs.Map(response.StatusNotFound{
					Success: false,
					Message: "volunteer not found",
					Data:    nil,
				}))
				return
			}

			utils.LogError(errors.Wrap(err, "[VOLUNTEERS] delete error"))
			c.JSON(http.StatusInternalServerError, structs.Map(response.StatusInternalServerError{
				Success: false,
				Message: "server error",
				Data:    nil,
			}))
			return
		}

		// store delete action, only on success
		audit.Store(models.Audit{
			Admin:     adminUsername(c),
			Action:    models.ActionDeleteVolunteer,
			Details:   "deleted volunteer " + id,
			Timestamp: time.Now().UTC(),
		})

		c.JSON(http.StatusOK, structs.Map(response.StatusOK{
			Success: true,
			Message: "volunteer deleted",
			Data:    nil,
		}))
	}
}

// ExportVolunteersCSV godoc
// @Summary Download all volunteers as CSV
// @Description CSV attachment, newest first, one header row plus one row per record
// @Produce  text/csv
// @Header 200 {string} Authorization "Bearer <valid.JWT.token>"
// @Router /api/volunteers/export [get]
// @Tags /api volunteers
func ExportVolunteersCSV(volunteers store.VolunteerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		records, err := volunteers.All(ctx)
		if err != nil {
			utils.LogError(errors.Wrap(err, "[VOLUNTEERS] export read error"))
			c.JSON(http.StatusInternalServerError, structs.Map(response.StatusInternalServerError{
				Success: false,
				Message: "server error",
				Data:    nil,
			}))
			return
		}

		// store export action, also for an empty export
		audit.Store(models.Audit{
			Admin:     adminUsername(c),
			Action:    models.ActionExportCSV,
			Details:   fmt.Sprintf("exported %d volunteers", len(records)),
			Timestamp: time.Now().UTC(),
		})

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="volunteers.csv"`)
		c.Status(http.StatusOK)

		writer := csv.NewWriter(c.Writer)
		writer.Write([]string{"Registered At", "Name", "Email", "Phone", "Message"})
		for _, volunteer := range records {
			writer.Write([]string{
				volunteer.RegisteredAt.UTC().Format(csvTimeLayout),
				volunteer.Name,
				volunteer.Email,
				volunteer.Phone,
				volunteer.Message,
			})
		}
		writer.Flush()

		if err := writer.Error(); err != nil {
			utils.LogError(errors.Wrap(err, "[VOLUNTEERS] csv write error"))
		}
	}
}

// GetStats godoc
// @Summary Get volunteer counts
// @Description total registrations and registrations since midnight UTC
// @Produce  json
// @Success 200 {object} response.StatusOK{success=bool,message=string,data=object}
// @Header 200 {string} Authorization "Bearer <valid.JWT.token>"
// @Router /api/admin/stats [get]
// @Tags /api admin
func GetStats(volunteers store.VolunteerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		ctx, cancel := requestContext(c)
		defer cancel()
		total, err := volunteers.Count(ctx)
		if err != nil {
			utils.LogError(errors.Wrap(err, "[STATS] total count error"))
			c.JSON(http.StatusInternalServerError, structs.Map(response.StatusInternalServerError{
				Success: false,
				Message: "server error",
				Data:    nil,
			}))
			return
		}

		today, err := volunteers.CountSince(ctx, midnight)
		if err != nil {
			utils.LogError(errors.Wrap(err, "[STATS] today count error"))
			c.JSON(http.StatusInternalServerError, structs.Map(response.StatusInternalServerError{
				Success: false,
				Message: "server error",
				Data:    nil,
			}))
			return
		}

		c.JSON(http.StatusOK, structs.Map(response.StatusOK{
			Success: true,
			Message: "success",
			Data:    gin.H{"total": total, "today": today},
		}))
	}
}

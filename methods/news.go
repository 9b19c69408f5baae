/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package methods

import (
	"net/http"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nethesis/memorial-api/audit"
	"github.com/nethesis/memorial-api/models"
	"github.com/nethesis/memorial-api/response"
	"github.com/nethesis/memorial-api/store"
	"github.com/nethesis/memorial-api/utils"
)

// newsDateLayout renders news dates in long human-readable form.
const newsDateLayout = "January 2, 2006"

// ListNews godoc
// @Summary Get all news items
// @Description public feed, newest first, dates in long form
// @Produce  json
// @Success 200 {object} response.StatusOK{success=bool,message=string,data=object}
// @Router /api/news [get]
// @Tags /api news
func ListNews(news store.NewsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		items, err := news.All(ctx)
		if err != nil {
			utils.LogError(errors.Wrap(err, "[NEWS] listing error"))
			c.JSON(http.StatusInternalServerError, structs.Map(response.StatusInternalServerError{
				Success: false,
				Message: "server error",
				Data:    nil,
			}))
			return
		}

		entries := make([]models.NewsEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, models.NewsEntry{
				ID:      item.ID.Hex(),
				Title:   item.Title,
				Content: item.Content,
				Image:   item.Image,
				Date:    item.Date.UTC().Format(newsDateLayout),
			})
		}

		c.JSON(http.StatusOK, structs.Map(response.StatusOK{
			Success: true,
			Message: "success",
			Data:    gin.H{"news": entries},
		}))
	}
}

// AddNews godoc
// @Summary Add a news item
// @Description title and content required; image is an optional inline encoded string
// @Produce  json
// @Success 201 {object} response.StatusCreated{success=bool,message=string,data=object}
// @Failure 400 {object} response.StatusBadRequest{success=bool,message=string,data=object}
// @Header 201 {string} Authorization "Bearer <valid.JWT.token>"
// @Router /api/news [post]
// @Tags /api news
func AddNews(news store.NewsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// get payload
		var jsonNews models.NewsJson
		if err := c.ShouldBindJSON(&jsonNews); err != nil {
			c.JSON(http.StatusBadRequest, structs.Map(response.StatusBadRequest{
				Success: false,
				Message: "invalid request body",
				Data:    nil,
			}))
			return
		}

		if jsonNews.Title == "" || jsonNews.Content == "" {
			c.JSON(http.StatusBadRequest, structs.Map(response.StatusBadRequest{
				Success: false,
				Message: "title and content are required",
				Data:    nil,
			}))
			return
		}

		// the image string is carried verbatim, bounded only by the request
		// body ceiling
		item := models.News{
			Title:   jsonNews.Title,
			Content: jsonNews.Content,
			Image:   jsonNews.Image,
			Date:    time.Now().UTC(),
		}

		ctx, cancel := requestContext(c)
		defer cancel()
		if err := news.Insert(ctx, &item); err != nil {
			utils.LogError(errors.Wrap(err, "[NEWS] insert error"))
			c.JSON(http.StatusInternalServerError, structs.Map(response.StatusInternalServerError{
				Success: false,
				Message: "server error",
				Data:    nil,
			}))
			return
		}

		// store add action
		audit.Store(models.Audit{
			Admin:     adminUsername(c),
			Action:    models.ActionAddNews,
			Details:   "added news " + item.ID.Hex(),
			Timestamp: time.Now().UTC(),
		})

		c.JSON(http.StatusCreated, structs.Map(response.StatusCreated{
			Success: true,
			Message: "news added successfully",
			Data:    gin.H{"id": item.ID.Hex()},
		}))
	}
}

// DeleteNews godoc
// @Summary Delete one news item by id
// @Produce  json
// @Param id path string true "news id"
// @Success 200 {object} response.StatusOK{success=bool,message=string,data=object}
// @Failure 404 {object} response.StatusNotFound{success=bool,message=string,data=object}
// @Header 200 {string} Authorization "Bearer <valid.JWT.token>"
// @Router /api/news/{id} [delete]
// @Tags /api news
func DeleteNews(news store.NewsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		ctx, cancel := requestContext(c)
		defer cancel()
		if err := news.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, structs.Map(response.StatusNotFound{
					Success: false,
					Message: "news not found",
					Data:    nil,
				}))
				return
			}

			utils.LogError(errors.Wrap(err, "[NEWS] delete error"))
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
			Action:    models.ActionDeleteNews,
			Details:   "deleted news " + id,
			Timestamp: time.Now().UTC(),
		})

		c.JSON(http.StatusOK, structs.Map(response.StatusOK{
			Success: true,
			Message: "news deleted",
			Data:    nil,
		}))
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/newsscrape/models"
	"github.com/use-agent/newsscrape/pipeline"
)

// NewsScraper runs the news-scrape pipeline for one query.
type NewsScraper interface {
	Run(ctx context.Context, query string, opts pipeline.RunOptions) (*models.ScrapedArticle, error)
}

// NewsScrape returns a handler for GET /news_scrape?q=<query>.
//
// Responses:
//
//	200  ScrapedArticle
//	200  {"error": ...}   search API key not configured (soft fail)
//	404  {"detail": ...}  search found nothing
//	422  {"detail": ...}  missing q
//	500  {"detail": ...}  any other failure
func NewsScrape(ns NewsScraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Detail: "query parameter q is required",
			})
			return
		}

		var opts pipeline.RunOptions
		if raw := c.Query("content"); raw != "" {
			include, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
					Detail: "query parameter content must be a boolean",
				})
				return
			}
			opts.IncludeContent = include
		}

		article, err := ns.Run(c.Request.Context(), query, opts)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, article)
	}
}

// respondError maps a pipeline error to its HTTP response.
func respondError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), nil)
	}

	switch scrapeErr.Code {
	case models.ErrCodeConfigMissing:
		c.JSON(http.StatusOK, models.ConfigErrorResponse{Error: scrapeErr.Message})
	case models.ErrCodeNotFound:
		c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: scrapeErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: scrapeErr.Detail()})
	}
}

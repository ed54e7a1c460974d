package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

type InfoFetcher interface {
	FetchInfo(ctx context.Context, rawURL string) (*models.MediaDescriptor, error)
}

type MediaRetriever interface {
	Prepare(body models.DownloadRequestBody) (models.DownloadRequest, error)
	Retrieve(ctx context.Context, req models.DownloadRequest) (*models.RetrievedFile, error)
}

type MediaHandler struct {
	fetcher   InfoFetcher
	retriever MediaRetriever
}

func NewMediaHandler(fetcher InfoFetcher, retriever MediaRetriever) *MediaHandler {
	return &MediaHandler{
		fetcher:   fetcher,
		retriever: retriever,
	}
}

// FetchInfo godoc
// @Summary Fetch media metadata
// @Description Classify a YouTube, Instagram or Spotify link and return its title, thumbnail, duration and available formats
// @Tags media
// @Produce json
// @Param url query string true "Media URL"
// @Success 200 {object} models.MediaDescriptor
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /fetch-info [get]
func (h *MediaHandler) FetchInfo(c *gin.Context) {
	ctx := c.Request.Context()

	link := c.Query("url")
	if link == "" {
		errorResponse(c, utils.NewValidationError("URL is required", map[string]interface{}{
			"parameter": "url",
		}))
		return
	}

	info, err := h.fetcher.FetchInfo(ctx, link)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// Download godoc
// @Summary Download media
// @Description Run the matching tool for the link and return the resulting audio or video file
// @Tags media
// @Accept json
// @Produce octet-stream
// @Param request body models.DownloadRequestBody true "Download request"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /download [post]
func (h *MediaHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()

	var body models.DownloadRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		errorResponse(c, utils.NewValidationError("URL and format are required", map[string]interface{}{
			"error": err.Error(),
		}))
		return
	}

	req, err := h.retriever.Prepare(body)
	if err != nil {
		errorResponse(c, err)
		return
	}

	file, err := h.retriever.Retrieve(ctx, req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.FileName))
	c.Header("Content-Length", strconv.Itoa(len(file.Data)))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

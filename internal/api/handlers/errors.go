package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/mediagrab/internal/services/downloader"
	"github.com/denisAlshanov/mediagrab/internal/services/extractor"
	"github.com/denisAlshanov/mediagrab/internal/services/runner"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

// toAppError maps service errors onto the HTTP error taxonomy.
func toAppError(err error) *utils.AppError {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var failure *runner.Failure
	if errors.As(err, &failure) {
		switch failure.Kind {
		case runner.FailureToolUnavailable:
			return utils.NewToolUnavailableError(failure.Message)
		case runner.FailureRateLimited:
			return utils.NewRateLimitedError(failure.Message)
		case runner.FailureBotDetected:
			return utils.NewBotDetectedError(failure.Message)
		case runner.FailureTimeout:
			return utils.NewTimeoutError(failure.Message)
		default:
			return utils.NewProcessFailedError(failure.Message)
		}
	}

	var notFound *downloader.OutputNotFoundError
	if errors.As(err, &notFound) {
		return utils.NewOutputNotFoundError(notFound.Error())
	}

	if errors.Is(err, extractor.ErrNoJSON) {
		return utils.NewParseError("Could not parse tool output")
	}

	return utils.NewInternalError(err.Error())
}

func errorResponse(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= 500 {
		utils.LogError(c.Request.Context(), "Request failed", err, utils.Fields{
			"code": appErr.Code,
		})
	} else {
		utils.LogWarn(c.Request.Context(), "Request rejected", utils.Fields{
			"code":  appErr.Code,
			"error": appErr.Message,
		})
	}

	c.JSON(appErr.StatusCode, gin.H{
		"error":      appErr.Message,
		"code":       appErr.Code,
		"request_id": c.GetString("request_id"),
	})
}

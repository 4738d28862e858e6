package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"news-comment/config"
	"news-comment/dto"
	"news-comment/models"
)

// Runner 는 URL 하나에 대해 파이프라인을 실행하고 결과를 내보낸다. *pipeline.Orchestrator 가 구현한다.
type Runner interface {
	RunAndExport(ctx context.Context, rawURL, filename string) (*models.PipelineResult, string, error)
}

// HealthHandler 는 프로세스가 요청을 받을 수 있는지만 알려준다.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// CreateCommentsHandler 는 기사 URL 로 파이프라인을 실행한다.
// 실행이 실패하면 422, 결과 파일을 쓰지 못하면 500 을 돌려준다.
func CreateCommentsHandler(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.CreateCommentsRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request: " + err.Error()})
			return
		}

		result, path, err := runner.RunAndExport(c.Request.Context(), in.URL, in.Filename)
		if err != nil {
			config.ErrorWithFields("comment request export failed", config.Fields{"url": in.URL, "error": err.Error()})
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "export_failed", RunID: runID(result)})
			return
		}
		if result == nil || !result.Success {
			msg := "pipeline_failed"
			if result != nil && result.Error != "" {
				msg = result.Error
			}
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponseDTO{Error: msg, RunID: runID(result)})
			return
		}

		c.JSON(http.StatusOK, dto.CreateCommentsResponseDTO{PipelineResult: result, ExportPath: path})
	}
}

func runID(result *models.PipelineResult) string {
	if result == nil {
		return ""
	}
	return result.RunID
}

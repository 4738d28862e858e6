package dto

import "news-comment/models"

// CreateCommentsRequestDTO 는 기사 URL 하나에 대한 댓글 생성 요청이다.
type CreateCommentsRequestDTO struct {
	URL      string `json:"url" binding:"required,url" example:"https://news.example.com/articles/1"`
	Filename string `json:"filename,omitempty" example:"rates.json"`
}

// CreateCommentsResponseDTO 는 실행 결과와 내보낸 파일 경로이다.
type CreateCommentsResponseDTO struct {
	*models.PipelineResult
	ExportPath string `json:"export_path"`
}

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"invalid_request"`
	// RunID 는 파이프라인이 실행된 뒤 실패한 경우에만 채운다.
	RunID string `json:"run_id,omitempty"`
}

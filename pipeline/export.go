package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"news-comment/models"
)

const exportTimeLayout = "20060102_150405"

// ExportError 는 결과 파일을 쓰지 못한 경우의 에러이다. 메모리의 결과는 그대로 남는다.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

const runIDPrefixLen = 8

// DefaultFilename 은 완료 시각과 실행 ID 앞부분으로 결과 파일 이름을 만든다.
// 같은 초에 끝난 실행끼리도 이름이 겹치지 않는다.
func DefaultFilename(completedAt time.Time, runID string) string {
	name := "news_comments_" + completedAt.Format(exportTimeLayout)
	runID = strings.ReplaceAll(filepath.Base(runID), "-", "")
	if runID != "" && runID != "." && runID != string(filepath.Separator) {
		if len(runID) > runIDPrefixLen {
			runID = runID[:runIDPrefixLen]
		}
		name += "_" + runID
	}
	return name + ".json"
}

// Export 는 결과를 dir 아래 들여쓰기된 JSON 파일로 쓰고 경로를 돌려준다.
// filename 이 비어 있으면 DefaultFilename 을 사용한다.
func Export(result *models.PipelineResult, dir, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename(result.Timestamp, result.RunID)
	}
	path := filepath.Join(dir, filepath.Base(filename))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return "", &ExportError{Path: path, Err: err}
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &ExportError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", &ExportError{Path: path, Err: err}
	}
	return path, nil
}

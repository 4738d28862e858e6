package models

// ExtractedDocument 는 한 번의 실행에서 기사 페이지로부터 추출한 결과이다.
// 생성 후에는 변경하지 않는다.
type ExtractedDocument struct {
	Title     string   `json:"title"`
	Body      string   `json:"content"`
	ImageURLs []string `json:"images"`
	SourceURL string   `json:"url"`
}

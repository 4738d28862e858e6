package models

// Style is the tone of a comment or a discourse reference.
type Style string

const (
	StyleProvocative Style = "provocative"
	StyleWitty       Style = "witty"
	StyleInsightful  Style = "insightful"
	StyleQuestion    Style = "question"
	StyleNeutral     Style = "neutral"
)

// CommentStyles 는 댓글 생성 시 시도하는 스타일 순서이다. neutral 은 참고 댓글 분류에만 쓰인다.
var CommentStyles = []Style{
	StyleProvocative,
	StyleWitty,
	StyleInsightful,
	StyleQuestion,
}

func (s Style) String() string { return string(s) }

package reddit

import "encoding/json"

// Submission 은 검색 결과의 게시물이다.
type Submission struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Permalink string `json:"permalink"`
}

// Comment 는 게시물의 최상위 댓글이다.
type Comment struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ParentID    string            `json:"parent_id"`
	Body        string            `json:"body"`
	Score       int               `json:"score"`
	Subreddit   string            `json:"subreddit"`
	AllAwarding []json.RawMessage `json:"all_awardings"`
}

// AwardCount 는 받은 어워드 종류의 수이다.
func (c Comment) AwardCount() int {
	return len(c.AllAwarding)
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []thing `json:"children"`
		After    string  `json:"after"`
	} `json:"data"`
}

// more 는 "more comments" 자리표시자이다.
type more struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parent_id"`
	Count    int      `json:"count"`
	Children []string `json:"children"`
}

type moreChildrenResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Things []thing `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

package models

// ReferenceTextLimit 는 저장되는 참고 댓글 본문의 최대 글자(rune) 수이다.
const ReferenceTextLimit = 300

// DiscourseReference is a high-engagement comment found in public discussion.
type DiscourseReference struct {
	Text            string `json:"content"`
	PopularityScore int    `json:"score"`
	AwardCount      int    `json:"awards"`
	OriginCommunity string `json:"subreddit"`
	Style           Style  `json:"style"`
}

// Rank is the ordering key used when selecting references.
func (r DiscourseReference) Rank() int {
	return r.PopularityScore + r.AwardCount*10
}

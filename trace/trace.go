package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// 컨텍스트에 저장되는 키 타입은 외부에서 직접 사용하지 못하게 unexported로 둔다.
type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info는 한 번의 파이프라인 실행(또는 inbound 요청)에 대한 트레이싱 정보를 담는다.
// - RunID: 실행 단위로 고유
// - spanSeq: 동일 RunID 내에서 outbound 호출마다 1,2,3,... 순차 증가
type Info struct {
	RunID   string
	spanSeq int64
}

// GenerateID는 트레이싱과 실행 식별에 사용할 랜덤 ID를 생성한다.
func GenerateID() string {
	return uuid.NewString()
}

// WithRun은 RunID와 초기 span 값(보통 0)을 저장한 새 컨텍스트를 반환한다.
func WithRun(ctx context.Context, runID string, initialSpan int64) context.Context {
	info := &Info{RunID: runID, spanSeq: initialSpan}
	return context.WithValue(ctx, ctxKeyTrace, info)
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

// RunIDFromContext는 컨텍스트에서 RunID를 조회한다.
func RunIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RunID
}

// CurrentSpanID는 현재 span 시퀀스 값을 문자열로 반환한다. (증가시키지 않는다.)
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	val := atomic.LoadInt64(&info.spanSeq)
	if val <= 0 {
		return "0"
	}
	return strconv.FormatInt(val, 10)
}

// NextSpanID는 spanSeq를 1 증가시키고 (runID, spanID 문자열)를 반환한다.
// 컨텍스트에 트레이스 정보가 없으면 ("", "") 를 반환한다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return "", ""
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	return info.RunID, strconv.FormatInt(val, 10)
}

package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceStartRe = regexp.MustCompile("^```(?:json)?\\s*")
	fenceEndRe   = regexp.MustCompile("\\s*```$")
)

// StripCodeFence 는 ```json ... ``` 으로 감싼 응답에서 펜스를 벗긴다.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = fenceStartRe.ReplaceAllString(text, "")
	text = fenceEndRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// DecodeJSON 은 펜스를 벗긴 뒤 out 으로 엄격하게 디코딩한다.
// 객체가 아닌 값, 알 수 없는 필드, 타입 불일치, 뒤따르는 데이터는 모두 ErrMalformedJSON 이다.
func DecodeJSON(raw string, out any) error {
	text := StripCodeFence(raw)
	if text == "" {
		return ErrEmptyResponse
	}
	// null, 배열, 스칼라는 구조체에 아무것도 채우지 않고 통과하므로 객체만 받는다.
	if text[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrMalformedJSON)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after object", ErrMalformedJSON)
	}
	return nil
}

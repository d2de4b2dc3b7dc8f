// Package llmjson extracts and decodes JSON embedded in free-form model output.
//
// Model replies are untrusted text that usually, but not always, contains the
// requested JSON. Decoding never fails with an error value; instead a Decoded
// result carries either the value or the cause of the empty result.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmpty     = errors.New("empty response")
	ErrNoArray   = errors.New("no JSON array found")
	ErrNoObject  = errors.New("no JSON object found")
	ErrMalformed = errors.New("malformed JSON")
)

// Decoded is the outcome of a defensive decode.
type Decoded[T any] struct {
	Value T
	Cause error
	// Skipped counts array elements dropped because they did not fit T.
	Skipped int
}

// OK reports whether decoding produced a value.
func (d Decoded[T]) OK() bool {
	return d.Cause == nil
}

// DecodeArray finds the first array in raw and decodes it into []T.
// Elements that do not decode into T are dropped individually.
func DecodeArray[T any](raw string) Decoded[[]T] {
	var elements []json.RawMessage
	cause := decode(raw, '[', ']', ErrNoArray, &elements)
	if cause != nil {
		return Decoded[[]T]{Value: []T{}, Cause: cause}
	}

	out := make([]T, 0, len(elements))
	skipped := 0
	for _, element := range elements {
		var item T
		if err := json.Unmarshal(element, &item); err != nil {
			skipped++
			continue
		}
		out = append(out, item)
	}
	return Decoded[[]T]{Value: out, Skipped: skipped}
}

// DecodeObject finds the first object in raw and decodes it into T.
func DecodeObject[T any](raw string) Decoded[T] {
	var out T
	cause := decode(raw, '{', '}', ErrNoObject, &out)
	if cause != nil {
		var zero T
		return Decoded[T]{Value: zero, Cause: cause}
	}
	return Decoded[T]{Value: out}
}

func decode(raw string, open, close byte, notFound error, dst interface{}) error {
	text := StripCodeFence(raw)
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}

	candidates := make([]string, 0, 2)
	if greedy, ok := greedySpan(text, open, close); ok {
		candidates = append(candidates, greedy)
	}
	if balanced, ok := balancedSpan(text, open, close); ok && (len(candidates) == 0 || balanced != candidates[0]) {
		candidates = append(candidates, balanced)
	}
	if len(candidates) == 0 {
		return notFound
	}

	var lastErr error
	for _, c := range candidates {
		if err := json.Unmarshal([]byte(c), dst); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMalformed, lastErr)
}

// StripCodeFence removes a surrounding ```json ... ``` markdown fence.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// greedySpan returns the text from the first open to the last close delimiter.
func greedySpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// balancedSpan returns the first delimiter-balanced span, honouring JSON strings.
func balancedSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

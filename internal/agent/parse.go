package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseProposal extracts a Proposal from model output. It tolerates code
// fences, prose around the JSON and malformed JSON that jsonrepair can fix.
// Output with no JSON at all becomes a reply without actions.
func ParseProposal(raw string) (*Proposal, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return nil, ErrEmptyResponse
	}

	body, ok := jsonSpan(text)
	if !ok {
		return &Proposal{Reply: text}, nil
	}

	v, err := decodeLoose(body)
	if err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(body)
		if repairErr != nil {
			return nil, fmt.Errorf("parsing agent response: %w (repair: %v)", err, repairErr)
		}
		if v, err = decodeLoose(repaired); err != nil {
			return nil, fmt.Errorf("parsing repaired agent response: %w", err)
		}
	}

	switch t := v.(type) {
	case []any:
		return &Proposal{Actions: t}, nil
	case map[string]any:
		p := &Proposal{}
		for _, key := range []string{"reply", "message", "text"} {
			if s, ok := t[key].(string); ok && strings.TrimSpace(s) != "" {
				p.Reply = strings.TrimSpace(s)
				break
			}
		}
		if list, ok := t["actions"].([]any); ok {
			p.Actions = list
		}
		if p.Reply == "" && len(p.Actions) == 0 {
			return nil, ErrEmptyResponse
		}
		return p, nil
	}
	return nil, fmt.Errorf("parsing agent response: unexpected %T", v)
}

func decodeLoose(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// jsonSpan returns the text from the first '{' or '[' to the end, or false
// when there is none. The tail is kept so truncated JSON can be repaired.
func jsonSpan(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	s = s[start:]
	closer := "}"
	if s[0] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(s, closer); end >= 0 {
		return s[:end+1], true
	}
	return s, true
}

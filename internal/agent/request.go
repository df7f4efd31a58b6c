package agent

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Rorical/StoreAgent/internal/conversation"
)

// Request is the inbound question. Its JSON form is either a bare string or
// an object with a "question" field.
type Request struct {
	Question string `json:"question"`
}

func (r *Request) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &r.Question)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		r.Question = ""
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("request must be a string or an object: %w", err)
	}
	*r = RequestFromInputs(obj)
	return nil
}

// RequestFromInputs reads the question from dataset-style inputs. A missing
// or non-string question degrades to an empty one.
func RequestFromInputs(inputs map[string]any) Request {
	question, _ := inputs["question"].(string)
	return Request{Question: question}
}

// Result is what an invocation returns to its caller. Only Output is part
// of the wire form; the transcript is kept for local callers.
type Result struct {
	Output   string                 `json:"output"`
	Messages []conversation.Message `json:"-"`
	Turns    int                    `json:"-"`
	Failed   bool                   `json:"-"`
}

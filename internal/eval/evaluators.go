package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
)

// Run is the recorded outcome of the target for one example
type Run struct {
	ExampleID string
	Inputs    map[string]any
	Outputs   map[string]any
}

type Score struct {
	Key     string `json:"key"`
	Value   bool   `json:"score"`
	Comment string `json:"comment,omitempty"`
}

type Evaluator interface {
	Key() string
	Evaluate(ctx context.Context, run Run, example Example) (Score, error)
}

// Judge asks a model for a verdict
type Judge interface {
	Judge(ctx context.Context, instruction, content string) (string, error)
}

// ModelJudge uses an llm.Model as judge, without tools
type ModelJudge struct {
	Model llm.Model
}

func (j ModelJudge) Judge(ctx context.Context, instruction, content string) (string, error) {
	resp, err := j.Model.Generate(ctx, llm.Request{
		Messages: []conversation.Message{
			{Role: conversation.RoleSystem, Content: instruction},
			{Role: conversation.RoleUser, Content: content},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

const kindnessRubric = `Evaluate the agent's answer.

Was the agent kind when answering? Judge this regardless of whether it found the product or of the product's price.

- True: the agent was kind
- False: the agent was not kind

Some factors you may consider, none of them exclusive: warmth, willingness to help, and presenting the product with good references.

Reply with a single word: True or False.`

// Kindness scores a reply with a judge model
type Kindness struct {
	Judge Judge
}

func (k Kindness) Key() string {
	return "kindness"
}

func (k Kindness) Evaluate(ctx context.Context, run Run, example Example) (Score, error) {
	content := fmt.Sprintf("The customer's question was: %s\nThe expected reference answer was: %s\nThe agent's actual answer was: %s",
		stringField(example.Inputs, "question"),
		stringField(example.Outputs, "answer"),
		stringField(run.Outputs, "output"),
	)

	verdict, err := k.Judge.Judge(ctx, kindnessRubric, content)
	if err != nil {
		return Score{}, fmt.Errorf("kindness judge: %w", err)
	}
	verdict = strings.ToLower(strings.TrimSpace(verdict))
	return Score{Key: k.Key(), Value: verdict == "true", Comment: verdict}, nil
}

var commonEmojis = []string{
	"😊", "❤️", "👍", "😂", "🙌", "✨", "🎉", "🔥", "💪", "👏",
	"🌟", "💯", "🤔", "👀", "💜", "✅", "🎈", "🌈", "🙏", "⭐",
	"💻", "📱", "🖥️", "⌨️", "🖱️", "💾", "📦", "🛒", "🛍️", "🔋",
	"🧑‍💻", "📡", "📊", "📈", "🖋️", "🖇️", "🏷️", "💳", "💡", "🔧",
}

// ContainsEmoji checks the reply for any of a fixed set of emojis
type ContainsEmoji struct{}

func (ContainsEmoji) Key() string {
	return "contains_emoji"
}

func (e ContainsEmoji) Evaluate(ctx context.Context, run Run, example Example) (Score, error) {
	output := stringField(run.Outputs, "output")
	for _, emoji := range commonEmojis {
		if strings.Contains(output, emoji) {
			return Score{Key: e.Key(), Value: true, Comment: emoji}, nil
		}
	}
	return Score{Key: e.Key(), Value: false}, nil
}

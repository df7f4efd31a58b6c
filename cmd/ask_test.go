package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadRequest(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "args", args: []string{"price", "of", "mouse?"}, want: "price of mouse?"},
		{name: "json string", stdin: `"is TECH20 valid?"`, want: "is TECH20 valid?"},
		{name: "json object", stdin: `{"question": "cheapest phone?"}`, want: "cheapest phone?"},
		{name: "plain text", stdin: "do you ship?\n", want: "do you ship?"},
		{name: "empty stdin", stdin: "  \n", want: ""},
		{name: "object without question", stdin: `{"lang": "es"}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := readRequest(tt.args, strings.NewReader(tt.stdin))
			require.NoError(t, err)
			require.Equal(t, tt.want, req.Question)
		})
	}

	_, err := readRequest(nil, strings.NewReader(`[1, 2]`))
	require.Error(t, err)
}

package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Query
	}{
		{"plain terms", "release notes", Query{Terms: "release notes", Limit: DefaultLimit}},
		{"sender filter", "deploy --from U1", Query{Terms: "deploy", SenderID: "U1", Limit: DefaultLimit}},
		{"limit", "--limit 5 budget", Query{Terms: "budget", Limit: 5}},
		{"invalid limit stays a term", "budget --limit ten", Query{Terms: "budget --limit ten", Limit: DefaultLimit}},
		{"dangling flag", "budget --from", Query{Terms: "budget --from", Limit: DefaultLimit}},
		{"sender only", "--from U2", Query{SenderID: "U2", Limit: DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestQuery_Empty(t *testing.T) {
	req := require.New(t)
	req.True(Parse("   ").Empty())
	req.True(Parse("--limit 3").Empty())
	req.False(Parse("--from U1").Empty())
}

package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactedCommand(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{
			name: "no token",
			argv: []string{"perceval", "git", "https://example.org/repo.git", "--json-line"},
			want: "perceval git https://example.org/repo.git --json-line",
		},
		{
			name: "short token flag",
			argv: []string{"perceval", "github", "owner", "repo", "-t", "ghp_secret"},
			want: "perceval github owner repo -t ***",
		},
		{
			name: "long token flag",
			argv: []string{"perceval", "gitlab", "owner", "repo", "--api-token", "glpat-secret"},
			want: "perceval gitlab owner repo --api-token ***",
		},
		{
			name: "token flag as last argument",
			argv: []string{"perceval", "github", "-t"},
			want: "perceval github -t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactedCommand(tt.argv))
		})
	}
}

func TestRedactedCommandDoesNotMutateArgv(t *testing.T) {
	argv := []string{"perceval", "github", "owner", "repo", "-t", "ghp_secret"}
	_ = redactedCommand(argv)
	assert.Equal(t, "ghp_secret", argv[5])
}

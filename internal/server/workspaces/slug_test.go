package workspaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Acme Inc", want: "acme-inc"},
		{name: "punctuation stripped", in: "My Team!! Workspace", want: "my-team-workspace"},
		{name: "whitespace collapsed", in: "A   B\tC", want: "a-b-c"},
		{name: "hyphen runs collapsed", in: "a---b", want: "a-b"},
		{name: "edge hyphens trimmed", in: " -edge- ", want: "edge"},
		{name: "unicode symbols dropped", in: "Café ☕ Crew", want: "caf-crew"},
		{name: "all symbols is empty", in: "!!!***", want: ""},
		{name: "empty input", in: "", want: ""},
		{name: "already a slug", in: "acme-inc", want: "acme-inc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"My Team!! Workspace", "Acme Inc", "a---b", "  Spaced   Out  "}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "slugify must be idempotent for %q", in)
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("acme-inc"))
	assert.True(t, ValidSlug("a1"))
	assert.False(t, ValidSlug(""), "empty slug is invalid input, not a crash")
	assert.False(t, ValidSlug("a"), "below minimum length")
	assert.False(t, ValidSlug("-edge"), "leading hyphen")
	assert.False(t, ValidSlug("edge-"), "trailing hyphen")
	assert.False(t, ValidSlug("UPPER"), "uppercase never passes")
	assert.False(t, ValidSlug(string(make([]byte, 60))), "over maximum length")
}

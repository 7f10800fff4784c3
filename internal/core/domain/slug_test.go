package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test Article Title", "test-article-title"},
		{"  Hello,   World!! ", "hello-world"},
		{"--already-slugged--", "already-slugged"},
		{"Café Déjà Vu", "cafe-deja-vu"},
		{"10 Tips for 2025", "10-tips-for-2025"},
		{"C++ & Go: a comparison", "c-go-a-comparison"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	title := "Why Solar Panels Pay Off in Winter"
	assert.Equal(t, Slugify(title), Slugify(title))
	assert.True(t, IsValidSlug(Slugify(title)))
}

func TestSlugify_OutputCharset(t *testing.T) {
	inputs := []string{"Ünïcödé Tïtlé", "tab\tand\nnewline", "emoji 🚀 launch", "UPPER_lower.mixed"}
	for _, in := range inputs {
		got := Slugify(in)
		assert.Truef(t, got == "" || IsValidSlug(got), "Slugify(%q) = %q is not a valid slug", in, got)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("a"))
	assert.True(t, IsValidSlug("job-posting-2"))
	assert.False(t, IsValidSlug(""))
	assert.False(t, IsValidSlug("-leading"))
	assert.False(t, IsValidSlug("double--hyphen"))
	assert.False(t, IsValidSlug("Upper"))
}

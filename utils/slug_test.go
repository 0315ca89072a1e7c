package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"cyrillic is transliterated", "Заголовок", SlugMaxLength, "zagolovok"},
		{"short i and yery", "Новый заголовок", SlugMaxLength, "novyij-zagolovok"},
		{"kha is h", "Хлеб", SlugMaxLength, "hleb"},
		{"multi-letter sounds", "Щука и ёжик", SlugMaxLength, "schuka-i-yozhik"},
		{"signs dropped", "Объявление", SlugMaxLength, "obyavlenie"},
		{"latin untouched", "Go Заметка 2", SlugMaxLength, "go-zametka-2"},
		{"spaces become dashes", "Hello World", SlugMaxLength, "hello-world"},
		{"cut does not end with dash", "ab " + strings.Repeat("c", 10), 3, "ab"},
		{"nothing sluggable", "!!!", SlugMaxLength, ""},
		{"cut to max", strings.Repeat("a", 150), SlugMaxLength, strings.Repeat("a", 100)},
		{"no limit", strings.Repeat("b", 150), 0, strings.Repeat("b", 150)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input, tt.max))
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("my-note_1"))
	assert.False(t, IsValidSlug("моя заметка"))
	assert.False(t, IsValidSlug(""))
	assert.True(t, IsValidSlug(Slugify("Новая заметка", SlugMaxLength)))
}

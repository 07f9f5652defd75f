package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"plain file", "/papers/study.txt", false},
		{"hidden file", "/papers/.study.txt.swp", true},
		{"hidden directory", "/papers/.git/config.txt", true},
		{"parent reference", "../papers/study.txt", false},
		{"relative plain", "papers/study.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHidden(tt.path))
		})
	}
}

func TestWatchedExtensions(t *testing.T) {
	assert.True(t, watchedExtensions[".txt"])
	assert.True(t, watchedExtensions[".md"])
	assert.False(t, watchedExtensions[".pdf"])
	assert.False(t, watchedExtensions[""])
}

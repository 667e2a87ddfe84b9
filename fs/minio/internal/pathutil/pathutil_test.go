package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                ".",
		".":               ".",
		"/":               ".",
		"a/b/":            "a/b",
		"/a/b":            "a/b",
		"a\\b\\c":         "a/b/c",
		"a/./b/../c":      "a/c",
		"/a\\b/./c/../d/": "a/b/d",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, Normalize(input), "Normalize(%q)", input)
	}
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "", NormalizePrefix(""))
	assert.Equal(t, "", NormalizePrefix("/"))
	assert.Equal(t, "team/shared", NormalizePrefix("/team/shared/"))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "", JoinPath("", "."))
	assert.Equal(t, "a.txt", JoinPath("", "/a.txt"))
	assert.Equal(t, "team", JoinPath("team", ""))
	assert.Equal(t, "team/a/b.txt", JoinPath("team", "a\\b.txt"))
}

func TestDirPrefix(t *testing.T) {
	assert.Equal(t, "", DirPrefix(""))
	assert.Equal(t, "a/", DirPrefix("a"))
	assert.Equal(t, "a/b/", DirPrefix("a/b/"))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, ".", Display(""))
	assert.Equal(t, "/", Display("/"))
	assert.Equal(t, "/data/in", Display("/data//in/"))
	assert.Equal(t, "data/in", Display("data\\in"))
}

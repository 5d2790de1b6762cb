package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World!":             "hello-world",
		"  Nike Air  Max 90 ":      "nike-air-max-90",
		"---Already-a-slug---":     "already-a-slug",
		"Áo dài (size M)":          "o-d-i-size-m",
		"UPPER_and_lower":          "upper-and-lower",
		"!!!":                      "",
		"":                         "",
		"multiple   spaces & / ok": "multiple-spaces-ok",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	for _, in := range []string{"Hello World!", "a--b", " -x- ", "Ñandú 2024", "already-fine"} {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), in)
	}
}

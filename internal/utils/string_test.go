package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type level string

type trimSample struct {
	Name    string
	Phone   *string
	Tags    []string
	Level   level
	Missing *string
	hidden  string
}

func TestTrimAllStringFields(t *testing.T) {
	phone := "  +91 98765 "
	in := trimSample{
		Name:   "  Ravi ",
		Phone:  &phone,
		Tags:   []string{" seeds", "tools  "},
		Level:  level(" high "),
		hidden: " x ",
	}

	out := TrimAllStringFields(in).(trimSample)

	assert.Equal(t, "Ravi", out.Name)
	assert.Equal(t, "+91 98765", *out.Phone)
	assert.Equal(t, []string{"seeds", "tools"}, out.Tags)
	assert.Equal(t, level("high"), out.Level)
	assert.Nil(t, out.Missing)
	assert.Equal(t, "  +91 98765 ", phone, "input must not be mutated")
}

func TestTrimAllStringFields_Nil(t *testing.T) {
	assert.Nil(t, TrimAllStringFields(nil))
}

package opener

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen_EmptyLink(t *testing.T) {
	assert.ErrorIs(t, Open(""), ErrEmptyLink)
	assert.ErrorIs(t, Open("   "), ErrEmptyLink)
}

func TestFunc_Assignable(t *testing.T) {
	var opened []string
	var f Func = func(link string) error {
		opened = append(opened, link)
		return nil
	}
	assert.NoError(t, f("https://sop.example/leak"))
	assert.Equal(t, []string{"https://sop.example/leak"}, opened)
}

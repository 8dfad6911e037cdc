package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandPattern(t *testing.T) {
	remind := command("remind")

	assert.True(t, remind.MatchString("/remind"))
	assert.True(t, remind.MatchString("/remind 3 10"))
	assert.True(t, remind.MatchString("/remind@liceu_bot 3 10"))
	assert.False(t, remind.MatchString("/reminders"))
	assert.False(t, remind.MatchString("remind 3 10"))
}

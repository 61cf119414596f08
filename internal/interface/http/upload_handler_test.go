package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUploadNameIsUniqueWithinAMillisecond(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	a := uploadName("photo.PNG", now)
	b := uploadName("photo.png", now)
	assert.Regexp(t, `^1700000000123-[0-9a-f]{8}\.png$`, a)
	assert.NotEqual(t, a, b)

	assert.Regexp(t, `^1700000000123-[0-9a-f]{8}\.jpg$`, uploadName("notes.txt", now))
	assert.Regexp(t, `\.jpg$`, uploadName("noext", now))
}

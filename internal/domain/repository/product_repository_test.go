package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProductSort(t *testing.T) {
	assert.Equal(t, SortLowest, ParseProductSort("lowest"))
	assert.Equal(t, SortHighest, ParseProductSort("highest"))
	assert.Equal(t, SortNewest, ParseProductSort(""))
	assert.Equal(t, SortNewest, ParseProductSort("default"))
	assert.Equal(t, SortNewest, ParseProductSort("LOWEST"))
}

package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	p := New(2, 10, 25)
	assert.Equal(t, 3, p.LastPage)
	assert.Equal(t, 10, p.Offset)
	assert.True(t, p.HasNext())

	p = New(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 1, p.LastPage)
	assert.False(t, p.HasNext())
}

func TestFromRequest(t *testing.T) {
	r := FromRequest("3", "500")
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, MaxLimit, r.Limit)
	assert.Equal(t, 200, r.Offset())

	r = FromRequest("abc", "")
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, DefaultLimit, r.Limit)
}

package middleware

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
)

func TestContainer_GetAllAndClear(t *testing.T) {
	noop := func(ctx huma.Context, next func(huma.Context)) { next(ctx) }
	c := NewContainer()

	first := c.Add(noop, noop).GetAllAndClear()
	second := c.Add(noop).GetAllAndClear()

	assert.Len(t, first, 2)
	assert.Len(t, second, 1)
	assert.Empty(t, c.GetAllAndClear())
}

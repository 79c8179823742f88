package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tideline/tideline/internal/model"
)

func TestTokenizeQuotedSpan(t *testing.T) {
	t.Parallel()
	tokens := tokenize(`sender:alice "hello world" -term:bob`)
	assert.Equal(t, []string{"sender:alice", "hello world", "-term:bob"}, tokens)
}

func TestCompileMatcherCombinesChips(t *testing.T) {
	t.Parallel()

	matcher := CompileMatcher("sender:alice term:hello")
	ev := model.Event{Fields: map[string]any{"sender": "alice", "body": "hello there"}}
	assert.True(t, matcher(ev))

	ev2 := model.Event{Fields: map[string]any{"sender": "alice", "body": "goodbye"}}
	assert.False(t, matcher(ev2))
}

func TestCompileMatcherEmptyQueryMatchesEverything(t *testing.T) {
	t.Parallel()
	matcher := CompileMatcher("")
	assert.True(t, matcher(model.Event{}))
}

func TestCompileMatcherDatetimeClosedRange(t *testing.T) {
	t.Parallel()
	matcher := CompileMatcher("datetime:1000,2000")
	assert.True(t, matcher(model.Event{TimestampMS: 1500}))
	assert.False(t, matcher(model.Event{TimestampMS: 2500}))
}

func TestCompileMatcherDatetimeOpenEnd(t *testing.T) {
	t.Parallel()
	matcher := CompileMatcher("datetime:1000,*")
	assert.True(t, matcher(model.Event{TimestampMS: 999999}))
	assert.False(t, matcher(model.Event{TimestampMS: 500}))
}

func TestCompileMatcherFreeTextSearchesMessage(t *testing.T) {
	t.Parallel()
	matcher := CompileMatcher("login")
	assert.True(t, matcher(model.Event{Message: "Successful login"}))
}

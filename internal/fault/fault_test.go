package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")

	err := Wrap(BadRequest, cause, "failed to load article")
	assert.Equal(t, BadRequest, KindOf(err))
	assert.Equal(t, "failed to load article", Message(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load article: connection reset", err.Error())

	assert.Nil(t, Wrap(Internal, nil, "unused"))
}

func TestWrap_KeepsExistingKind(t *testing.T) {
	inner := New(Conflict, "guid %q already exists", "about-us")
	err := Wrap(Internal, fmt.Errorf("create: %w", inner), "failed to create article")

	assert.Equal(t, Conflict, KindOf(err))
	assert.Equal(t, `guid "about-us" already exists`, Message(err))
}

func TestKindOf_Unclassified(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, Internal, KindOf(err))
	assert.Equal(t, "internal server error", Message(err))
	assert.Equal(t, "internal", KindOf(err).String())
}

package response

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsComparesCode(t *testing.T) {
	tipped := ErrNotFound.WithTips("活动不存在")
	assert.True(t, errors.Is(tipped, ErrNotFound))
	assert.False(t, errors.Is(tipped, ErrConflict))
	assert.Contains(t, tipped.Message, "活动不存在")

	// 不同种类的错误码互不相同
	kinds := []*Error{ErrInvalidRequest, ErrUnauthorized, ErrTokenInvalid, ErrForbidden, ErrNotFound,
		ErrInvalidPassword, ErrConflict, ErrInvalidState, ErrCapacityFull, ErrDatabase, ErrServerInternal, ErrStorage}
	seen := map[int32]bool{}
	for _, k := range kinds {
		assert.False(t, seen[k.Code], "重复的错误码 %d", k.Code)
		seen[k.Code] = true
	}
}

func TestWithOriginKeepsCause(t *testing.T) {
	cause := errors.New("deadlock found")
	err := ErrDatabase.WithOrigin(cause)

	assert.True(t, errors.Is(err, ErrDatabase))
	assert.False(t, errors.Is(err, ErrCapacityFull))
	assert.True(t, errors.Is(err, cause))
	assert.NotNil(t, err.StackTrace())
	assert.True(t, err.Internal())
	assert.False(t, ErrCapacityFull.Internal())
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))
	assert.Equal(t, ErrForbidden, From(ErrForbidden))

	e := From(errors.New("boom"))
	assert.True(t, errors.Is(e, ErrServerInternal))
}

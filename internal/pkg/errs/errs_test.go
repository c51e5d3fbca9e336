//go:build unit

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"hotel-booking/internal/pkg/errs"

	cr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

type detailErr struct{ field string }

func (e *detailErr) Error() string { return e.field + " is invalid" }

func TestMark(t *testing.T) {
	base := &detailErr{field: "price"}
	marked := errs.Mark(errs.Wrap(base, "parse room"), errs.ErrValidation)

	t.Run("標準のerrors.Isでマークを判定できる", func(t *testing.T) {
		assert.True(t, errors.Is(marked, errs.ErrValidation))
		assert.False(t, errors.Is(marked, errs.ErrConflict))
	})

	t.Run("cockroachdbのerrors.Isでも判定できる", func(t *testing.T) {
		assert.True(t, cr.Is(marked, errs.ErrValidation))
	})

	t.Run("メッセージは元のエラーのまま", func(t *testing.T) {
		assert.Equal(t, "parse room: price is invalid", marked.Error())
	})

	t.Run("errors.Asで元のエラーを取り出せる", func(t *testing.T) {
		var target *detailErr
		assert.True(t, errors.As(marked, &target))
		assert.Equal(t, "price", target.field)
	})

	t.Run("UnwrapAllは最も内側のエラー", func(t *testing.T) {
		assert.Equal(t, base, errs.UnwrapAll(marked))
	})

	t.Run("二重のマーク", func(t *testing.T) {
		twice := errs.Mark(marked, errs.ErrDatabaseOperationFailed)
		assert.True(t, errors.Is(twice, errs.ErrValidation))
		assert.True(t, errors.Is(twice, errs.ErrDatabaseOperationFailed))
	})

	t.Run("nilはマーク自体を返す", func(t *testing.T) {
		assert.Equal(t, errs.ErrConflict, errs.Mark(nil, errs.ErrConflict))
	})
}

func TestExtractStackLines(t *testing.T) {
	err := errs.Mark(errs.New("boom"), errs.ErrInvariantViolated)
	lines := errs.ExtractStackLines(err, 5)
	assert.LessOrEqual(t, len(lines), 5)
	assert.Contains(t, fmt.Sprintf("%v", err), "boom")
	assert.Nil(t, errs.ExtractStackLines(nil, 5))
}

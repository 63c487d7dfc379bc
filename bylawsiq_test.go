package bylawsiq_test

import (
	"testing"

	"github.com/bylawsiq/bylawsiq"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := bylawsiq.Errorf(bylawsiq.ENOTFOUND, "run %q not found", "test")

	assert.Equal(t, bylawsiq.ENOTFOUND, bylawsiq.ErrorCode(err))
	assert.Equal(t, "run \"test\" not found", bylawsiq.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, bylawsiq.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bylawsiq.EINTERNAL, bylawsiq.ErrorCode(assert.AnError))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, bylawsiq.ErrorMessage(nil))
}

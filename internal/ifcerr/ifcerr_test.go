package ifcerr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMissingFileMapsTo400(t *testing.T) {
	err := MissingFile()
	require.Equal(t, CodeMissingFile, err.Code)
	require.Equal(t, http.StatusBadRequest, err.Status())
	require.True(t, errors.Is(err, ErrMissingFile))
}

func TestFileTooLargeMapsTo413AndIncludesLimit(t *testing.T) {
	err := FileTooLarge(500)
	require.Equal(t, http.StatusRequestEntityTooLarge, err.Status())
	require.Contains(t, err.Error(), "500")
}

func TestNotFoundMapsTo404(t *testing.T) {
	err := NotFound("deadbeef")
	require.Equal(t, http.StatusNotFound, err.Status())
	require.Contains(t, err.Error(), "deadbeef")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestTaskWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Task(cause)
	require.Equal(t, http.StatusInternalServerError, err.Status())
	require.True(t, errors.Is(err, ErrTask))
	require.Contains(t, err.Error(), "boom")
}

func TestCacheAndProcessingAre500(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, Cache("disk full").Status())
	require.Equal(t, http.StatusInternalServerError, Processing("bad offset 42").Status())
	require.Contains(t, Processing("bad offset 42").Error(), "42")
}

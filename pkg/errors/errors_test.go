package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictErrorResolvesAsError(t *testing.T) {
	var err error = NewConflictError("time conflict with BUAD 301", "BUAD 301")
	assert.Equal(t, "time conflict with BUAD 301", err.Error())

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "BUAD 301", conflictErr.Conflicting)

	var base *Error
	require.ErrorAs(t, err, &base)
	assert.Equal(t, "SCHEDULE_CONFLICT", base.Code)
	assert.Equal(t, http.StatusConflict, base.Status)
}

func TestPrereqErrorResolvesAsError(t *testing.T) {
	var err error = NewPrereqError("missing prerequisites for BUAD 327", []string{"BUAD 323"})
	assert.Equal(t, "missing prerequisites for BUAD 327", err.Error())

	var prereqErr *PrereqError
	require.ErrorAs(t, err, &prereqErr)
	assert.Equal(t, []string{"BUAD 323"}, prereqErr.Missing)

	var base *Error
	require.ErrorAs(t, err, &base)
	assert.Equal(t, "PREREQUISITES_NOT_MET", base.Code)
	assert.Equal(t, http.StatusPreconditionFailed, base.Status)
}

func TestFromErrorNormalisesPayloadErrors(t *testing.T) {
	appErr := FromError(NewPrereqError("missing prerequisites", []string{"MATH 106"}))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrPrereqsNotMet.Code, appErr.Code)

	wrapped := FromError(errors.New("boom"))
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrInternal.Code, wrapped.Code)
	assert.Equal(t, http.StatusInternalServerError, wrapped.Status)
}

package utils_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-console/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestStrings(t *testing.T) {
	require.Nil(t, utils.Strings(nil))
	require.Equal(t, []string{"USER_READ", "USER_WRITE"}, utils.Strings([]any{"USER_READ", 42.0, nil, "USER_WRITE"}))
}

func TestPtrUnlessZero(t *testing.T) {
	require.Nil(t, utils.PtrUnlessZero(time.Time{}))
	require.Nil(t, utils.PtrUnlessZero(""))

	now := time.Now()
	got := utils.PtrUnlessZero(now)
	require.NotNil(t, got)
	require.True(t, now.Equal(*got))
}

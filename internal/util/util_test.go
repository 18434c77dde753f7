package util

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type mockIgnorableError struct {
	ignorable bool
	msg       string
}

func (e *mockIgnorableError) Error() string   { return e.msg }
func (e *mockIgnorableError) Ignorable() bool { return e.ignorable }

type mockExitStatusError struct {
	status int
	msg    string
}

func (e *mockExitStatusError) Error() string   { return e.msg }
func (e *mockExitStatusError) ExitStatus() int { return e.status }

func TestIsIgnorableError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"ignorable true", &mockIgnorableError{ignorable: true, msg: "test"}, true},
		{"ignorable false", &mockIgnorableError{ignorable: false, msg: "test"}, false},
		{"non-ignorable error", errors.New("plain error"), false},
		{"nil", nil, false},
		{"wrapped ignorable", fmt.Errorf("wrapper: %w", &mockIgnorableError{ignorable: true, msg: "inner"}), true},
		{"pkg/errors wrapped ignorable", pkgerrors.Wrap(&mockIgnorableError{ignorable: true, msg: "inner"}, "wrapper"), true},
		{"wrapped non-ignorable", fmt.Errorf("wrapper: %w", errors.New("plain")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, IsIgnorableError(tt.err))
		})
	}
}

func TestGetExitStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedFound  bool
	}{
		{"exit status 0", &mockExitStatusError{status: 0, msg: "test"}, 0, true},
		{"exit status 1", &mockExitStatusError{status: 1, msg: "test"}, 1, true},
		{"exit status 42", &mockExitStatusError{status: 42, msg: "test"}, 42, true},
		{"plain error", errors.New("plain"), 1, false},
		{"wrapped exit status", fmt.Errorf("wrapper: %w", &mockExitStatusError{status: 2, msg: "inner"}), 2, true},
		{"pkg/errors wrapped exit status", pkgerrors.Wrap(&mockExitStatusError{status: 3, msg: "inner"}, "wrapper"), 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, found := GetExitStatus(tt.err)
			require.Equal(t, tt.expectedStatus, status)
			require.Equal(t, tt.expectedFound, found)
		})
	}
}

func TestHomedir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("home directory comes from the current user on windows")
	}

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	home, err := Homedir()
	require.NoError(t, err)
	require.Equal(t, dir, home)

	t.Setenv("HOME", "")
	_, err = Homedir()
	require.Error(t, err)
}

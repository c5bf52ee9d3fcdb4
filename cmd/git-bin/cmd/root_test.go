package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/aweris/binstore"
)

func TestExitCodeMapping(t *testing.T) {
	conflict := &binstore.SignatureConflictError{Path: "a.bin", Digest: "d", StoreSize: 1, PathSize: 2}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"signature conflict", conflict, exitConflict},
		{"wrapped conflict", fmt.Errorf("store a.bin: %w", conflict), exitConflict},
		{"uninitialized store", fmt.Errorf("%w: /store", binstore.ErrStoreUninitialized), exitUninitialized},
		{"unavailable store", fmt.Errorf("%w: /store", binstore.ErrStoreUnavailable), exitUnavailable},
		{"explicit run error", &runError{exitFailure, errors.New("some paths failed")}, exitFailure},
		{"unknown subcommand", errors.New(`unknown command "frobnicate" for "git-bin"`), exitUsage},
		{"generic failure", errors.New("read store /store: permission denied"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestUsageArgsMapsToUsageCode(t *testing.T) {
	validate := usageArgs(cobra.MinimumNArgs(1))

	err := validate(storeCmd, nil)
	var run *runError
	require.True(t, errors.As(err, &run))
	require.Equal(t, exitUsage, run.code)

	require.NoError(t, validate(storeCmd, []string{"a.bin"}))
}

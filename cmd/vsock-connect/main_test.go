package main

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"enclave-helpers/bridge"
	"enclave-helpers/shared"
)

func TestUsageErrorsCreateNoSocket(t *testing.T) {
	tests := map[string][]string{
		"NoArgs":    {},
		"OneArg":    {"3"},
		"ThreeArgs": {"3", "5000", "7"},
		"BadCID":    {"three", "5000"},
		"BadPort":   {"3", "-5000"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			dialed := false
			dial := func(cid, port uint32) (bridge.Conn, error) {
				dialed = true
				return nil, errors.New("unexpected dial")
			}

			cmd := newRootCmd(shared.WrapLogger(zaptest.NewLogger(t), serviceName), os.Stdin, &bytes.Buffer{}, dial)
			cmd.SetArgs(args)
			err := cmd.Execute()

			require.Error(t, err)
			assert.Equal(t, shared.UsageError, shared.KindOf(err))
			assert.False(t, dialed)
		})
	}
}

func TestConnectFailure(t *testing.T) {
	var gotCID, gotPort uint32
	dial := func(cid, port uint32) (bridge.Conn, error) {
		gotCID, gotPort = cid, port
		return nil, shared.NewError(shared.ConnectFailure, "connect(vsock 3:5000)", errors.New("connection refused"))
	}

	cmd := newRootCmd(shared.WrapLogger(zaptest.NewLogger(t), serviceName), os.Stdin, &bytes.Buffer{}, dial)
	cmd.SetArgs([]string{"3", "5000"})
	err := cmd.Execute()

	require.Error(t, err)
	assert.Equal(t, shared.ConnectFailure, shared.KindOf(err))
	assert.Equal(t, uint32(3), gotCID)
	assert.Equal(t, uint32(5000), gotPort)
}

func TestRunUsageErrorExitsOne(t *testing.T) {
	t.Setenv(shared.EnvFileVar, "")
	t.Setenv("LOG_LEVEL", "")

	dial := func(cid, port uint32) (bridge.Conn, error) {
		t.Fatal("dial must not be called on a usage error")
		return nil, nil
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"3"}, os.Stdin, &stdout, &stderr, dial)

	assert.Equal(t, 1, code)
	assert.Zero(t, stdout.Len())
	assert.Contains(t, stderr.String(), "usage: vsock-connect <cid> <port>")
	assert.Contains(t, stderr.String(), "usage_error")
}

func TestRunConnectFailureExitsOne(t *testing.T) {
	t.Setenv(shared.EnvFileVar, "")
	t.Setenv("LOG_LEVEL", "not-a-level")

	dial := func(cid, port uint32) (bridge.Conn, error) {
		return nil, shared.NewError(shared.ConnectFailure, "connect(vsock 3:5000)", errors.New("connection refused"))
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"3", "5000"}, os.Stdin, &stdout, &stderr, dial)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "connect(vsock 3:5000)")
	assert.Contains(t, stderr.String(), "connect_failure")
}

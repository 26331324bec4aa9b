package transport

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowdocs/docresolver/go/wire"
)

var fakeResolverPath string

// TestMain compiles testdata/fakeresolver once per test run, mirroring how
// the teacher's integration suites shell out to real connector binaries
// rather than mocking os/exec.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "docresolver-fakeresolver-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	fakeResolverPath = filepath.Join(dir, "fakeresolver")
	build := exec.Command("go", "build", "-o", fakeResolverPath, "../../testdata/fakeresolver")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func TestChildProcessTransportHandshake(t *testing.T) {
	tr, err := NewChildProcessTransport(fakeResolverPath, WithArgs("-bundle-id=com.example.Docs"))
	require.NoError(t, err)
	defer tr.Close()

	resp, err := tr.SendAndWait(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, resp.IsBundleIdentifier())
	require.Equal(t, "com.example.Docs", *resp.BundleIdentifier)
}

func TestChildProcessTransportTopicResolve(t *testing.T) {
	tr, err := NewChildProcessTransport(fakeResolverPath)
	require.NoError(t, err)
	defer tr.Close()

	_, err = tr.SendAndWait(context.Background(), nil)
	require.NoError(t, err)

	resp, err := tr.SendAndWait(context.Background(), wire.NewTopicRequest("doc://com.example.Docs/Foo/Bar"))
	require.NoError(t, err)
	require.NotNil(t, resp.ResolvedInformation)
	require.Equal(t, "Bar", resp.ResolvedInformation.Title)
}

func TestChildProcessTransportInvalidResponseKind(t *testing.T) {
	tr, err := NewChildProcessTransport(fakeResolverPath)
	require.NoError(t, err)
	defer tr.Close()

	_, err = tr.SendAndWait(context.Background(), nil)
	require.NoError(t, err)

	_, err = tr.SendAndWait(context.Background(), wire.NewTopicRequest("doc://com.example.Docs/garbled-kind"))
	require.Error(t, err)
	var kindErr *InvalidResponseKindFromClientError
	require.ErrorAs(t, err, &kindErr)
	require.Equal(t, "somethingElse", kindErr.Key)
}

func TestChildProcessTransportProcessDidExit(t *testing.T) {
	tr, err := NewChildProcessTransport(fakeResolverPath, WithArgs("-exit-after=0"))
	require.NoError(t, err)
	defer tr.Close()

	_, err = tr.SendAndWait(context.Background(), nil)
	require.NoError(t, err)

	_, err = tr.SendAndWait(context.Background(), wire.NewTopicRequest("doc://com.example.Docs/Foo"))
	require.Error(t, err)
	var exitErr *ProcessDidExitError
	require.ErrorAs(t, err, &exitErr)

	_, err = tr.SendAndWait(context.Background(), wire.NewTopicRequest("doc://com.example.Docs/Again"))
	require.Error(t, err)
	var terminatedErr *TransportTerminatedError
	require.ErrorAs(t, err, &terminatedErr)
}

func TestChildProcessTransportMissingResolverAt(t *testing.T) {
	_, err := NewChildProcessTransport(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	var missingErr *MissingResolverAtError
	require.ErrorAs(t, err, &missingErr)
}

func TestChildProcessTransportNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-executable")
	require.NoError(t, os.WriteFile(path, []byte("not a program"), 0o644))

	_, err := NewChildProcessTransport(path)
	require.Error(t, err)
	var notExecErr *ResolverNotExecutableError
	require.ErrorAs(t, err, &notExecErr)
}

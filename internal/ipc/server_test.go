package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu        sync.Mutex
	status    shell.Status
	reloads   int
	saves     int
	activated []string
	err       error
}

func (f *fakeController) Status(context.Context) (shell.Status, error) {
	return f.status, f.err
}

func (f *fakeController) Reload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.err
}

func (f *fakeController) Save(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return f.err
}

func (f *fakeController) Activate(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, name)
	return f.err
}

func startServer(t *testing.T, ctrl Controller) *Client {
	t.Helper()

	// Unix socket paths are length-limited, so avoid the long t.TempDir names.
	dir, err := os.MkdirTemp("", "dsk")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := NewServer(filepath.Join(dir, "s.sock"), ctrl, logger)
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)

	return NewClient(srv.SocketPath())
}

func TestRoundTrip(t *testing.T) {
	ctrl := &fakeController{status: shell.Status{
		Screen:   platform.Rect{Width: 1920, Height: 1080},
		Struts:   platform.Struts{Top: 30},
		Degraded: true,
		Models:   []shell.ModelStatus{{Name: "top1", Kind: "Panel"}},
	}}
	client := startServer(t, ctrl)

	st, err := client.GetStatus()
	require.NoError(t, err)
	assert.True(t, st.DaemonRunning)
	assert.Equal(t, 30, st.Shell.Struts.Top)
	assert.Equal(t, 1920, st.Shell.Screen.Width)
	assert.True(t, st.Shell.Degraded)
	require.Len(t, st.Shell.Models, 1)
	assert.Equal(t, "top1", st.Shell.Models[0].Name)

	require.NoError(t, client.Reload())
	require.NoError(t, client.Save())
	require.NoError(t, client.Activate("clock"))
	require.NoError(t, client.Ping())

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	assert.Equal(t, 1, ctrl.reloads)
	assert.Equal(t, 1, ctrl.saves)
	assert.Equal(t, []string{"clock"}, ctrl.activated)
}

func TestControllerErrorsReachClient(t *testing.T) {
	ctrl := &fakeController{err: errors.New("boom")}
	client := startServer(t, ctrl)

	err := client.Activate("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "nope")

	assert.Error(t, client.Reload())
	assert.Error(t, client.Ping())
}

func TestActivateRequiresName(t *testing.T) {
	ctrl := &fakeController{}
	client := startServer(t, ctrl)

	err := client.Activate("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	assert.Empty(t, ctrl.activated)
}

func TestUnknownCommand(t *testing.T) {
	client := startServer(t, &fakeController{})

	_, err := client.sendRequest(&Request{Command: "TILE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown command")
}

func TestMalformedRequest(t *testing.T) {
	client := startServer(t, &fakeController{})

	conn, err := net.Dial("unix", client.socketPath)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("not json\n"))
	require.NoError(t, err)

	body, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"ERROR"`)
	assert.Contains(t, string(body), "Invalid request")
}

func TestClientWithoutDaemon(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	err := client.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}

func TestStopRemovesSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "dsk")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "s.sock")
	srv, err := NewServer(path, &fakeController{}, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Start())

	_, err = os.Stat(path)
	require.NoError(t, err)

	srv.Stop()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer("", &fakeController{}, nil)
	assert.Error(t, err)
	_, err = NewServer("/tmp/x.sock", nil, nil)
	assert.Error(t, err)
}

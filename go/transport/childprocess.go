package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/flowdocs/docresolver/go/metrics"
	"github.com/flowdocs/docresolver/go/ops"
	"github.com/flowdocs/docresolver/go/wire"
)

// state is the lifecycle of a ChildProcessTransport, per spec section 3:
// Unstarted -> Running -> Terminated, with Running -> Terminated irreversible.
type state int32

const (
	stateUnstarted state = iota
	stateRunning
	stateTerminated
)

// gracefulShutdown bounds how long Close waits for the child to exit after
// SIGTERM before escalating to Kill.
const gracefulShutdown = 2 * time.Second

// ChildProcessTransport spawns and owns a resolver executable's stdin,
// stdout, and stderr pipes. SendAndWait calls are strictly serialized by mu;
// the stderr pipe is drained on an independent goroutine so a stderr burst
// can never deadlock a pending stdout read (spec section 9, "Design Notes").
type ChildProcessTransport struct {
	mu    sync.Mutex
	state state

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	stderrDone chan struct{}

	logger *log.Entry
}

// ChildProcessOption configures a ChildProcessTransport at construction.
type ChildProcessOption func(*childProcessConfig)

type childProcessConfig struct {
	args          []string
	env           []string
	dir           string
	stderrHandler ops.StderrHandler
	logger        *log.Entry
}

// WithArgs sets the arguments passed to the resolver executable.
func WithArgs(args ...string) ChildProcessOption {
	return func(c *childProcessConfig) { c.args = args }
}

// WithEnv sets the child process's environment, in os/exec.Cmd.Env form.
// If unset, the child inherits the current process's environment.
func WithEnv(env []string) ChildProcessOption {
	return func(c *childProcessConfig) { c.env = env }
}

// WithDir sets the child process's working directory.
func WithDir(dir string) ChildProcessOption {
	return func(c *childProcessConfig) { c.dir = dir }
}

// WithStderrHandler overrides the default stderr line handler (which logs
// each line via the configured logger at debug level).
func WithStderrHandler(h ops.StderrHandler) ChildProcessOption {
	return func(c *childProcessConfig) { c.stderrHandler = h }
}

// WithLogger overrides the logrus entry the transport and its default
// stderr handler log through.
func WithLogger(logger *log.Entry) ChildProcessOption {
	return func(c *childProcessConfig) { c.logger = logger }
}

// NewChildProcessTransport spawns path as a child process with fresh
// anonymous pipes for stdin, stdout, and stderr. Construction fails
// deterministically if path doesn't exist, isn't executable, or process
// spawning fails (e.g. the host platform doesn't support it). If any step
// after the existence/executable checks fails, every resource acquired so
// far is released before the error is returned.
func NewChildProcessTransport(path string, opts ...ChildProcessOption) (*ChildProcessTransport, error) {
	cfg := childProcessConfig{logger: log.NewEntry(log.StandardLogger())}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.stderrHandler == nil {
		cfg.stderrHandler = ops.NewStderrLogger(cfg.logger, log.DebugLevel)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &MissingResolverAtError{Path: path}
	}
	if !isExecutable(info) {
		return nil, &ResolverNotExecutableError{Path: path}
	}

	cmd := exec.Command(path, cfg.args...)
	if cfg.dir != "" {
		cmd.Dir = cfg.dir
	}
	if cfg.env != nil {
		cmd.Env = cfg.env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("transport: creating stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("transport: creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("transport: creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return nil, fmt.Errorf("transport: starting resolver process: %w", err)
	}

	t := &ChildProcessTransport{
		state:      stateUnstarted,
		cmd:        cmd,
		stdin:      stdin,
		stdout:     bufio.NewReader(stdout),
		stderrDone: make(chan struct{}),
		logger:     cfg.logger.WithField("resolver_path", path),
	}

	go t.drainStderr(stderr, cfg.stderrHandler)

	t.logger.WithField("args", cmd.Args).Info("spawned resolver process")
	return t, nil
}

// drainStderr runs for the lifetime of the child, independently of
// SendAndWait, so that backpressure on stderr never blocks stdout reads.
func (t *ChildProcessTransport) drainStderr(stderr io.ReadCloser, handler ops.StderrHandler) {
	defer close(t.stderrDone)
	defer stderr.Close()

	_, _ = io.Copy(ops.NewStderrWriteAdapter(handler), stderr)
}

// SendAndWait implements Transport. req == nil is legal only as the very
// first call, and means "read the handshake line without writing anything."
func (t *ChildProcessTransport) SendAndWait(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateTerminated {
		return nil, &TransportTerminatedError{}
	}

	if req != nil {
		line, err := json.Marshal(req)
		if err != nil {
			return nil, &UnableToEncodeRequestToClientError{Description: req.Description(), Cause: err}
		}
		line = append(line, '\n')
		if _, err := t.stdin.Write(line); err != nil {
			return nil, fmt.Errorf("transport: writing request to resolver stdin: %w", err)
		}
	}

	raw, readErr := t.stdout.ReadString('\n')
	if len(raw) == 0 && readErr != nil {
		t.markTerminated()
		metrics.TransportErrorsTotal.WithLabelValues("process_did_exit").Inc()
		return nil, &ProcessDidExitError{ExitCode: t.waitExitCode()}
	}

	var resp wire.Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		var unrecognized *wire.UnrecognizedKeyError
		if errors.As(err, &unrecognized) {
			metrics.TransportErrorsTotal.WithLabelValues("invalid_response_kind").Inc()
			return nil, &InvalidResponseKindFromClientError{Key: unrecognized.Key, Bytes: []byte(raw)}
		}
		metrics.TransportErrorsTotal.WithLabelValues("decode_failure").Inc()
		return nil, &UnableToDecodeResponseFromClientError{Bytes: []byte(raw), Cause: err}
	}

	if t.state == stateUnstarted {
		t.state = stateRunning
	}
	return &resp, nil
}

// waitExitCode waits for the child to fully exit (it has already closed its
// stdout) and returns its exit code, or -1 if it couldn't be determined.
func (t *ChildProcessTransport) waitExitCode() int {
	err := t.cmd.Wait()
	if t.cmd.ProcessState != nil {
		return t.cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func (t *ChildProcessTransport) markTerminated() {
	t.state = stateTerminated
}

// Close terminates the child process (SIGTERM, escalating to Kill after
// gracefulShutdown), stops the stderr drain, and closes the stdin pipe. It
// is safe to call more than once; Running -> Terminated is irreversible.
func (t *ChildProcessTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateTerminated {
		return nil
	}
	t.state = stateTerminated

	_ = t.stdin.Close()

	if t.cmd.Process != nil {
		_ = t.cmd.Process.Signal(syscall.SIGTERM)

		done := make(chan struct{})
		go func() {
			_ = t.cmd.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(gracefulShutdown):
			_ = t.cmd.Process.Kill()
			<-done
		}
	}

	<-t.stderrDone
	t.logger.Info("resolver transport terminated")
	return nil
}

func isExecutable(info os.FileInfo) bool {
	if info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

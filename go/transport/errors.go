package transport

import (
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MissingResolverAtError reports that no file exists at the configured
// resolver executable path. It is fatal at ChildProcessTransport construction.
type MissingResolverAtError struct {
	Path string
}

func (e *MissingResolverAtError) Error() string {
	return fmt.Sprintf("transport: no resolver executable at %q", e.Path)
}

func (e *MissingResolverAtError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// ResolverNotExecutableError reports that the file at the configured path
// exists but is not executable. It is fatal at construction.
type ResolverNotExecutableError struct {
	Path string
}

func (e *ResolverNotExecutableError) Error() string {
	return fmt.Sprintf("transport: resolver at %q is not executable", e.Path)
}

func (e *ResolverNotExecutableError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

// ProcessDidExitError reports that a zero-byte read from the child's stdout
// was observed, meaning the child has exited. It is fatal for the call in
// which it occurs, and for every subsequent call against the same transport.
type ProcessDidExitError struct {
	ExitCode int
}

func (e *ProcessDidExitError) Error() string {
	return fmt.Sprintf("transport: resolver process exited with code %d", e.ExitCode)
}

func (e *ProcessDidExitError) GRPCStatus() *status.Status {
	return status.New(codes.Unavailable, e.Error())
}

// UnableToDecodeResponseFromClientError reports that a line read from the
// peer did not decode as a well-formed Response.
type UnableToDecodeResponseFromClientError struct {
	Bytes []byte
	Cause error
}

func (e *UnableToDecodeResponseFromClientError) Error() string {
	return fmt.Sprintf("transport: unable to decode response %q: %s", bestEffortUTF8(e.Bytes), e.Cause)
}

func (e *UnableToDecodeResponseFromClientError) Unwrap() error { return e.Cause }

func (e *UnableToDecodeResponseFromClientError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Error())
}

// InvalidResponseKindFromClientError reports that a line read from the peer
// was well-formed JSON with exactly one key, but that key did not match any
// known Response variant. Distinguished from
// UnableToDecodeResponseFromClientError, which covers malformed JSON or the
// wrong number of keys.
type InvalidResponseKindFromClientError struct {
	Key   string
	Bytes []byte
}

func (e *InvalidResponseKindFromClientError) Error() string {
	return fmt.Sprintf("transport: response %q carried unrecognized key %q", bestEffortUTF8(e.Bytes), e.Key)
}

func (e *InvalidResponseKindFromClientError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Error())
}

// UnableToEncodeRequestToClientError reports that a request could not be
// encoded to send to the peer.
type UnableToEncodeRequestToClientError struct {
	Description string
	Cause       error
}

func (e *UnableToEncodeRequestToClientError) Error() string {
	return fmt.Sprintf("transport: unable to encode request (%s): %s", e.Description, e.Cause)
}

func (e *UnableToEncodeRequestToClientError) Unwrap() error { return e.Cause }

func (e *UnableToEncodeRequestToClientError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Error())
}

// TransportTerminatedError is returned by SendAndWait once a transport has
// observed termination (process exit or explicit Close) and is called again.
type TransportTerminatedError struct{}

func (e *TransportTerminatedError) Error() string {
	return "transport: resolver transport has already terminated"
}

func (e *TransportTerminatedError) GRPCStatus() *status.Status {
	return status.New(codes.Unavailable, e.Error())
}

// bestEffortUTF8 renders bytes as a string, replacing invalid sequences
// rather than failing, since decode-failure payloads are diagnostic only.
func bestEffortUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

package resolver

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InvalidBundleIdentifierOutputFromExecutableError reports that the first
// reply from a freshly spawned child was not a bundleIdentifier. Fatal at
// construction.
type InvalidBundleIdentifierOutputFromExecutableError struct {
	Got string
}

func (e *InvalidBundleIdentifierOutputFromExecutableError) Error() string {
	return fmt.Sprintf("resolver: handshake reply was not a bundle identifier: %s", e.Got)
}

func (e *InvalidBundleIdentifierOutputFromExecutableError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

// ExecutableSentBundleIdentifierAgainError reports a bundleIdentifier reply
// received after the handshake, which is illegal.
type ExecutableSentBundleIdentifierAgainError struct {
	BundleID string
}

func (e *ExecutableSentBundleIdentifierAgainError) Error() string {
	return fmt.Sprintf("resolver: received a second bundle identifier %q after handshake", e.BundleID)
}

func (e *ExecutableSentBundleIdentifierAgainError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

// ForwardedErrorFromClientError wraps an errorMessage reply from the peer,
// verbatim.
type ForwardedErrorFromClientError struct {
	Message string
}

func (e *ForwardedErrorFromClientError) Error() string { return e.Message }

func (e *ForwardedErrorFromClientError) GRPCStatus() *status.Status {
	return status.New(codes.Unknown, e.Message)
}

// UnexpectedResponseError reports a reply variant that, while well-formed,
// does not match what the corresponding request kind expects (e.g. a
// symbol request answered with an asset).
type UnexpectedResponseError struct {
	Description string
	Kind        string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("resolver: unexpected %s response to %s", e.Kind, e.Description)
}

func (e *UnexpectedResponseError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Error())
}

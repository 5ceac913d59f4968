package main

import "fmt"

// CmdError is a user-visible command failure. It is serialized to the
// client as a '-' frame and bumps the command_errors counter; the
// connection stays open.
type CmdError struct {
	Message string
}

func (e *CmdError) Error() string { return e.Message }

func newCmdError(format string, args ...interface{}) *CmdError {
	return &CmdError{Message: fmt.Sprintf(format, args...)}
}

// ClientQuit is a control signal raised by the QUIT command: the
// connection loop replies success and closes the connection.
type ClientQuit struct{}

func (ClientQuit) Error() string { return "client quit" }

// Shutdown is a control signal raised by the SHUTDOWN command: the
// connection loop replies success and unwinds the accept loop.
type Shutdown struct{}

func (Shutdown) Error() string { return "server shutdown" }

// EndOfStream is raised by the codec on an empty read; the connection
// loop closes the connection silently.
type EndOfStream struct{}

func (EndOfStream) Error() string { return "end of stream" }

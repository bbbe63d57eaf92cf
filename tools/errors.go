package tools

import "fmt"

// UnknownToolError is returned when a tool name is not registered
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// ToolInvocationError is returned when a registered tool fails
type ToolInvocationError struct {
	Name string
	Err  error
}

func (e *ToolInvocationError) Error() string {
	return e.Err.Error()
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}

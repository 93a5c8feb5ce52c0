package diag

import "fmt"

// Bug is the panic payload used for internal invariant violations: a
// transform/codegen contract desync, not a user error. It is raised with
// Bugf deep inside the pipeline and recovered at the Compile boundary,
// where it becomes an internal-compiler-error diagnostic instead of
// crashing the host process.
type Bug struct {
	Code    Code
	Message string
}

// Error implements the error interface
func (b *Bug) Error() string {
	return fmt.Sprintf("internal compiler error[%d]: %s", b.Code, b.Message)
}

// Bugf panics with a Bug carrying the given code and formatted message.
// The message should include enough context to reproduce, such as the
// node kind and offending helper.
func Bugf(code Code, format string, args ...any) {
	panic(&Bug{Code: code, Message: fmt.Sprintf(format, args...)})
}

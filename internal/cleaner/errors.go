package cleaner

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// ErrorReason categorizes why a deletion failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileNotFound
	ErrorNotDirectory
	ErrorInvalidPath
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorFileInUse:
		return "In use"
	case ErrorFileNotFound:
		return "Not found"
	case ErrorNotDirectory:
		return "Not a directory"
	case ErrorInvalidPath:
		return "Invalid path"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// ErrSymlink is returned for an entry that has been replaced by a symbolic link
var ErrSymlink = errors.New("path is a symbolic link")

// DeletionError is a categorized failure to delete one entry
type DeletionError struct {
	Path      string
	Reason    ErrorReason
	Original  error
	Retryable bool
}

// Error implements the error interface
func (e *DeletionError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// Unwrap returns the underlying error
func (e *DeletionError) Unwrap() error {
	return e.Original
}

// UserMessage returns a short explanation suitable for the terminal
func (e *DeletionError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return "permission denied"
	case ErrorFileInUse:
		return "directory is in use (close the program holding it and try again)"
	case ErrorFileNotFound:
		return "no longer exists"
	case ErrorNotDirectory:
		return "no longer a directory"
	case ErrorInvalidPath:
		return fmt.Sprintf("refused: %v", e.Original)
	default:
		return fmt.Sprintf("%v", e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized DeletionError
func CategorizeError(path string, err error) *DeletionError {
	if err == nil {
		return nil
	}

	delErr := &DeletionError{
		Path:     path,
		Original: err,
		Reason:   ErrorUnknown,
	}

	if errors.Is(err, ErrSymlink) {
		delErr.Reason = ErrorInvalidPath
		return delErr
	}

	if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
		delErr.Reason = ErrorFileNotFound
		return delErr
	}

	if os.IsPermission(err) || errors.Is(err, os.ErrPermission) {
		delErr.Reason = ErrorPermissionDenied
		return delErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			delErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			delErr.Reason = ErrorFileInUse
			delErr.Retryable = true
		case syscall.ENOENT:
			delErr.Reason = ErrorFileNotFound
		case syscall.ENOTDIR:
			delErr.Reason = ErrorNotDirectory
		}
	}

	return delErr
}

// GroupErrors groups deletion errors by reason
func GroupErrors(errs []*DeletionError) map[ErrorReason][]*DeletionError {
	grouped := make(map[ErrorReason][]*DeletionError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a grouped summary of errors
func FormatErrorSummary(errs []*DeletionError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	var b strings.Builder
	b.WriteString("\nIssues encountered:\n")

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		fmt.Fprintf(&b, "   ├─ Permission denied: %d %s\n", len(perms), dirs(len(perms)))
		b.WriteString("   │  └─ Tip: check the owner of these directories\n")
	}

	if busy, ok := grouped[ErrorFileInUse]; ok {
		fmt.Fprintf(&b, "   ├─ In use: %d %s\n", len(busy), dirs(len(busy)))
		b.WriteString("   │  └─ Tip: stop dev servers and editors, then retry\n")
	}

	if notFound, ok := grouped[ErrorFileNotFound]; ok {
		fmt.Fprintf(&b, "   ├─ Already gone: %d %s\n", len(notFound), dirs(len(notFound)))
	}

	if invalid, ok := grouped[ErrorInvalidPath]; ok {
		fmt.Fprintf(&b, "   ├─ Refused: %d %s\n", len(invalid), dirs(len(invalid)))
	}

	other := len(grouped[ErrorNotDirectory]) + len(grouped[ErrorUnknown])
	if other > 0 {
		fmt.Fprintf(&b, "   └─ Other errors: %d %s\n", other, dirs(other))
	}

	return b.String()
}

func dirs(n int) string {
	if n == 1 {
		return "directory"
	}
	return "directories"
}

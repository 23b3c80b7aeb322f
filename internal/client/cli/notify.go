package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/review"
	"github.com/dmitrijs2005/docreview/internal/client/services"
)

// describeError turns a command failure into the message shown to the user.
func describeError(err error) string {
	var (
		authErr     *client.AuthError
		downloadErr *client.DownloadError
		notFound    *review.NotFoundError
	)

	switch {
	case errors.Is(err, errUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	case errors.As(err, &authErr):
		return "Login failed: " + authErr.Error()
	case errors.As(err, &downloadErr):
		return "Export failed: " + downloadErr.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case services.IsSessionError(err):
		if errors.Is(err, client.ErrNoSession) {
			return "Not logged in. Type 'login' to start."
		}
		return fmt.Sprintf("The server rejected the session (%v). Log in again with 'login'.", err)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Sprintf("Review service unavailable: %v", err)
	case errors.Is(err, review.ErrBusy):
		return "Busy: another operation is still running."
	case errors.Is(err, review.ErrExportUnavailable),
		errors.Is(err, review.ErrNoDocument),
		errors.Is(err, review.ErrNoCategory),
		errors.Is(err, review.ErrUnknownField):
		return capitalize(err.Error())
	default:
		return "Error: " + err.Error()
	}
}

func notify(err error) {
	printlnFn(errorStyle.Render(describeError(err)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

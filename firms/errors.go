package firms

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError with errors.Is.
var ErrNotFound = errors.New("not found")

type Kind string

const (
	KindFirm Kind = "firm"
	KindTier Kind = "tier"
)

// NotFoundError is returned when a firm is not supported or a firm has no
// tier for the requested account size.
type NotFoundError struct {
	Kind        Kind
	Firm        string
	AccountSize int
}

func (e *NotFoundError) Error() string {
	if e.Kind == KindTier {
		return fmt.Sprintf("no $%d account tier for firm %q", e.AccountSize, e.Firm)
	}
	return fmt.Sprintf("firm %q is not supported", e.Firm)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFoundKind reports the kind of lookup that failed when err wraps a
// *NotFoundError.
func NotFoundKind(err error) (Kind, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Kind, true
	}
	return "", false
}

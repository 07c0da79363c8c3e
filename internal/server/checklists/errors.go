package checklists

import (
	"fmt"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
)

func malformed(raw string) error {
	return fmt.Errorf("%w: %q", common.ErrMalformedReference, raw)
}

func outOfRange(ref Reference, reason string) error {
	return fmt.Errorf("%w: %s: %s", common.ErrReferenceOutOfRange, ref, reason)
}

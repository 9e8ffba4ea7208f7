package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrBankNotFound     = errors.New("bank not found")
	ErrCorruptPartition = errors.New("corrupt transaction partition")
)

// IncompleteSettlementError reports which of the required settlement fields
// the scrape did not yield. It is not fatal to the reconciliation loop.
type IncompleteSettlementError struct {
	Missing []string
}

func (e IncompleteSettlementError) Error() string {
	return fmt.Sprintf("incomplete settlement info, missing: %s", strings.Join(e.Missing, ", "))
}

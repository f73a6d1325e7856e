package ledger

import (
	"time"

	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/seq"
)

// NextNumber previews the protocol number the next Create will issue for the
// given year (0 means the current year). The counter is not advanced; the
// reservation happens inside Create, so an abandoned editor session cannot
// leave a gap.
func NextNumber(store *kv.Store, year int) *seq.Result {
	if year == 0 {
		year = time.Now().Year()
	}
	return seq.Peek(store, year)
}

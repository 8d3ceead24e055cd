package api

import (
	"github.com/gatedfi/rwa-dex/api/types"
)

// Services bundles the backing services wired into a Server. A nil field
// falls back to the mock implementation.
type Services struct {
	Pools      types.PoolService
	Quotes     types.QuoteService
	Compliance types.ComplianceService
}

var (
	_ types.PoolService       = (*MockService)(nil)
	_ types.QuoteService      = (*MockService)(nil)
	_ types.ComplianceService = (*MockService)(nil)
)

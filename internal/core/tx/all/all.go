// Package all registers every transaction type. Import it for side effects
// wherever transactions are decoded by type.
package all

import (
	_ "github.com/LeJamon/goMarketd/internal/core/tx/auction"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/feecfg"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/fractional"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/market"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/rental"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/token"
)

package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// InitDefaultWhitelist registers the given hook programs at chain start.
// Programs already present are left untouched, so restarts are safe.
func (k *Keeper) InitDefaultWhitelist(ctx sdk.Context, programs ...string) {
	whitelist := k.GetWhitelist(ctx)
	added := 0
	for _, program := range programs {
		if whitelist.Contains(program) {
			continue
		}
		if err := whitelist.Add(program); err != nil {
			k.logger.Error("failed to whitelist hook program", "program", program, "error", err)
			continue
		}
		added++
	}
	if added == 0 {
		return
	}
	whitelist.UpdatedAt = ctx.BlockTime().Unix()
	k.SetWhitelist(ctx, whitelist)

	k.logger.Info("default hook programs registered",
		"added", added,
		"program_count", len(whitelist.Programs),
	)
}

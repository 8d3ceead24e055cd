package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/gatedfi/rwa-dex/x/amm/types"
)

// GetTxCmd returns the transaction commands for the amm module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "amm",
		Short:                      "AMM module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdInitializePool(),
		CmdAddLiquidity(),
		CmdRemoveLiquidity(),
		CmdSwap(),
		CmdCollectFees(),
		CmdClosePosition(),
	)

	return cmd
}

// CmdInitializePool returns the command to create and seed a pool
func CmdInitializePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-pool [config-id] [token-a] [token-b] [liquidity] [sqrt-price]",
		Short: "Create a pool from a config and seed its initial liquidity",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			activation, err := cmd.Flags().GetInt64("activation")
			if err != nil {
				return err
			}

			msg := &types.MsgInitializePool{
				Creator:             clientCtx.GetFromAddress().String(),
				ConfigID:            args[0],
				TokenA:              args[1],
				TokenB:              args[2],
				InitialLiquidity:    args[3],
				InitialSqrtPrice:    args[4],
				ActivationTimestamp: activation,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Int64("activation", 0, "Unix timestamp for delayed activation (timestamp-typed configs only)")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAddLiquidity returns the command to add liquidity to a position
func CmdAddLiquidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity [position-id] [liquidity] [max-a] [max-b]",
		Short: "Add liquidity to an existing position",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgAddLiquidity{
				Owner:           clientCtx.GetFromAddress().String(),
				PositionID:      args[0],
				LiquidityDelta:  args[1],
				TokenAMaxAmount: args[2],
				TokenBMaxAmount: args[3],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRemoveLiquidity returns the command to withdraw liquidity
func CmdRemoveLiquidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-liquidity [position-id] [liquidity] [min-a] [min-b]",
		Short: "Withdraw liquidity from a position",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRemoveLiquidity{
				Owner:           clientCtx.GetFromAddress().String(),
				PositionID:      args[0],
				LiquidityDelta:  args[1],
				TokenAMinAmount: args[2],
				TokenBMinAmount: args[3],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwap returns the command to swap against a pool
func CmdSwap() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [pool-id] [amount-in] [min-amount-out] [direction]",
		Short: "Swap tokens against a pool (direction: 0 = A to B, 1 = B to A)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			direction, err := strconv.ParseUint(args[3], 10, 8)
			if err != nil {
				return err
			}

			referral, err := cmd.Flags().GetString("referral")
			if err != nil {
				return err
			}

			msg := &types.MsgSwap{
				Trader:           clientCtx.GetFromAddress().String(),
				PoolID:           args[0],
				AmountIn:         args[1],
				MinimumAmountOut: args[2],
				Direction:        uint8(direction),
				Referral:         referral,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String("referral", "", "Referral address for fee sharing")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCollectFees returns the command to collect accrued position fees
func CmdCollectFees() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect-fees [position-id]",
		Short: "Collect accrued LP fees from a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgCollectFees{
				Owner:      clientCtx.GetFromAddress().String(),
				PositionID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClosePosition returns the command to close an empty position
func CmdClosePosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close-position [position-id]",
		Short: "Close an emptied position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClosePosition{
				Owner:      clientCtx.GetFromAddress().String(),
				PositionID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// PoolConfigInfo is a CLI-friendly pool config struct
type PoolConfigInfo struct {
	ConfigID       string `json:"config_id"`
	BaseFeeBps     string `json:"base_fee_bps"`
	SchedulerMode  string `json:"scheduler_mode"`
	CollectFeeMode string `json:"collect_fee_mode"`
	ActivationType string `json:"activation_type"`
	SqrtMinPrice   string `json:"sqrt_min_price"`
	SqrtMaxPrice   string `json:"sqrt_max_price"`
}

// GetQueryCmd returns the cli query commands for the amm module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "amm",
		Short:                      "Querying commands for the amm module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryConfigs(),
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryPosition(),
		CmdQueryPositions(),
		CmdQueryQuote(),
	)

	return cmd
}

// CmdQueryConfigs returns the command to query pool configs
func CmdQueryConfigs() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Query all pool configs",
		RunE: func(cmd *cobra.Command, args []string) error {
			configs := sampleConfigs()
			output, _ := json.MarshalIndent(configs, "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPool returns the command to query a pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query pool state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Pool query requires running node connection")
			fmt.Println("Use REST API: GET /rwadex/amm/v1/pool/{pool_id}")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPools returns the command to query all pools
func CmdQueryPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Query all pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Pools query requires running node connection")
			fmt.Println("Use REST API: GET /rwadex/amm/v1/pools")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPosition returns the command to query a position
func CmdQueryPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position [position-id]",
		Short: "Query a specific liquidity position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Position query requires running node connection")
			fmt.Println("Use REST API: GET /rwadex/amm/v1/position/{position_id}")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPositions returns the command to query positions by owner
func CmdQueryPositions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions [owner]",
		Short: "Query all positions for an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Positions query requires running node connection")
			fmt.Println("Use REST API: GET /rwadex/amm/v1/positions/{owner}")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryQuote returns the command to preview a swap
func CmdQueryQuote() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [pool-id] [amount-in] [direction]",
		Short: "Preview a swap without executing it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Quote query requires running node connection")
			fmt.Println("Use REST API: GET /rwadex/amm/v1/quote/{pool_id}?amount_in={amount}&direction={direction}")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

func sampleConfigs() []PoolConfigInfo {
	return []PoolConfigInfo{
		{
			ConfigID:       "launch-decay",
			BaseFeeBps:     "500",
			SchedulerMode:  "exponential",
			CollectFeeMode: "lp",
			ActivationType: "timestamp",
			SqrtMinPrice:   "4295048016",
			SqrtMaxPrice:   "79226673521066979257578248091",
		},
		{
			ConfigID:       "stable-flat",
			BaseFeeBps:     "30",
			SchedulerMode:  "linear",
			CollectFeeMode: "protocol",
			ActivationType: "immediate",
			SqrtMinPrice:   "4295048016",
			SqrtMaxPrice:   "79226673521066979257578248091",
		},
	}
}

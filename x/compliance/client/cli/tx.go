package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/gatedfi/rwa-dex/x/compliance/types"
)

// GetTxCmd returns the transaction commands for the compliance module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "compliance",
		Short:                      "Compliance module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdSetRecord(),
		CmdUpdateRecordFlags(),
		CmdSetAssetPolicy(),
		CmdAddHookProgram(),
		CmdRemoveHookProgram(),
	)

	return cmd
}

// CmdSetRecord returns the command to issue a compliance record
func CmdSetRecord() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-record [address] [tier] [country]",
		Short: "Issue a compliance record for an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			tier, err := strconv.ParseUint(args[1], 10, 8)
			if err != nil {
				return err
			}

			state, err := cmd.Flags().GetString("state")
			if err != nil {
				return err
			}
			city, err := cmd.Flags().GetString("city")
			if err != nil {
				return err
			}

			msg := &types.MsgSetComplianceRecord{
				Issuer:  clientCtx.GetFromAddress().String(),
				Address: args[0],
				Tier:    uint8(tier),
				Country: args[2],
				State:   state,
				City:    city,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String("state", "", "State or province code")
	cmd.Flags().String("city", "", "City name")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateRecordFlags returns the command to set or clear record flags
func CmdUpdateRecordFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-flags [address] [flags-to-set] [flags-to-clear]",
		Short: "Set and clear status flags on a compliance record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			set, err := strconv.ParseUint(args[1], 10, 8)
			if err != nil {
				return err
			}
			clear, err := strconv.ParseUint(args[2], 10, 8)
			if err != nil {
				return err
			}

			msg := &types.MsgUpdateComplianceRecord{
				Issuer:       clientCtx.GetFromAddress().String(),
				Address:      args[0],
				FlagsToSet:   uint8(set),
				FlagsToClear: uint8(clear),
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetAssetPolicy returns the command to set an asset policy
func CmdSetAssetPolicy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-policy [denom] [required-tier] [daily-limit] [monthly-limit]",
		Short: "Set the compliance policy for an asset denom",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			tier, err := strconv.ParseUint(args[1], 10, 8)
			if err != nil {
				return err
			}

			countries, err := cmd.Flags().GetStringSlice("allowed-countries")
			if err != nil {
				return err
			}
			regions, err := cmd.Flags().GetStringSlice("restricted-regions")
			if err != nil {
				return err
			}

			msg := &types.MsgSetAssetPolicy{
				Authority:         clientCtx.GetFromAddress().String(),
				Denom:             args[0],
				RequiredTier:      uint8(tier),
				AllowedCountries:  countries,
				RestrictedRegions: regions,
				DailyLimit:        args[2],
				MonthlyLimit:      args[3],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().StringSlice("allowed-countries", nil, "Country allow-list (empty allows all)")
	cmd.Flags().StringSlice("restricted-regions", nil, "Restricted regions as CC_SS codes")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAddHookProgram returns the command to whitelist a hook program
func CmdAddHookProgram() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-hook [program]",
		Short: "Add a program to the transfer hook whitelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgAddHookProgram{
				Authority: clientCtx.GetFromAddress().String(),
				Program:   args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRemoveHookProgram returns the command to remove a whitelisted program
func CmdRemoveHookProgram() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-hook [program]",
		Short: "Remove a program from the transfer hook whitelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRemoveHookProgram{
				Authority: clientCtx.GetFromAddress().String(),
				Program:   args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

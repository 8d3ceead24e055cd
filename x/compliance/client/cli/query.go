package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// FlagInfo is a CLI-friendly description of a record status flag
type FlagInfo struct {
	Bit     uint8  `json:"bit"`
	Name    string `json:"name"`
	Meaning string `json:"meaning"`
}

// GetQueryCmd returns the cli query commands for the compliance module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "compliance",
		Short:                      "Querying commands for the compliance module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryRecord(),
		CmdQueryPolicy(),
		CmdQueryWhitelist(),
		CmdQueryFlags(),
	)

	return cmd
}

// CmdQueryRecord returns the command to query a compliance record
func CmdQueryRecord() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [address]",
		Short: "Query the compliance record for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Record query requires running node connection")
			fmt.Println("Use REST API: GET /rwadex/compliance/v1/record/{address}")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPolicy returns the command to query an asset policy
func CmdQueryPolicy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy [denom]",
		Short: "Query the compliance policy for an asset denom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Policy query requires running node connection")
			fmt.Println("Use REST API: GET /rwadex/compliance/v1/policy/{denom}")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryWhitelist returns the command to query the hook whitelist
func CmdQueryWhitelist() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Query the transfer hook whitelist",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Whitelist query requires running node connection")
			fmt.Println("Use REST API: GET /rwadex/compliance/v1/whitelist")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryFlags returns the command listing record status flag bits
func CmdQueryFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "List record status flag bits",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := json.MarshalIndent(flagTable(), "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

func flagTable() []FlagInfo {
	return []FlagInfo{
		{Bit: 1, Name: "sanctioned", Meaning: "account on a sanctions list"},
		{Bit: 2, Name: "pep", Meaning: "politically exposed person"},
		{Bit: 4, Name: "frozen", Meaning: "account blocked from all gated transfers"},
		{Bit: 8, Name: "expired", Meaning: "identity verification lapsed"},
	}
}

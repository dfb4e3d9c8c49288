package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// OwnerCmd groups the board ownership subcommands
var OwnerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Show or change the board owner",
	Long: `owner — Manage board ownership

The owner may toggle any job's visibility in addition to the author.
Transfer hands the role to another identity; renounce clears it
permanently, after which owner-only operations always fail.

Examples:
  jobboard owner show
  jobboard owner transfer bob --as alice
  jobboard owner renounce --as bob`,
}

var ownerAsFlag string

var ownerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current board owner",
	RunE:  runOwnerShow,
}

var ownerTransferCmd = &cobra.Command{
	Use:   "transfer <new-owner>",
	Short: "Transfer ownership to another identity (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runOwnerTransfer,
}

var ownerRenounceCmd = &cobra.Command{
	Use:   "renounce",
	Short: "Renounce ownership, leaving the board ownerless (owner only)",
	RunE:  runOwnerRenounce,
}

func init() {
	OwnerCmd.PersistentFlags().StringVar(&ownerAsFlag, "as", "", "Caller identity for mutations")

	OwnerCmd.AddCommand(ownerShowCmd)
	OwnerCmd.AddCommand(ownerTransferCmd)
	OwnerCmd.AddCommand(ownerRenounceCmd)
}

func runOwnerShow(cmd *cobra.Command, args []string) error {
	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	owner, err := registry.Owner()
	if err != nil {
		return err
	}

	if owner == "" {
		pterm.Info.Println("The board has no owner")
		return nil
	}
	pterm.Info.Printf("Board owner: %s\n", owner)
	return nil
}

func runOwnerTransfer(cmd *cobra.Command, args []string) error {
	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	newOwner := args[0]
	if err := registry.TransferOwnership(ownerAsFlag, newOwner); err != nil {
		return err
	}

	pterm.Success.Printf("Ownership transferred to %s\n", newOwner)
	return nil
}

func runOwnerRenounce(cmd *cobra.Command, args []string) error {
	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	if err := registry.RenounceOwnership(ownerAsFlag); err != nil {
		return err
	}

	pterm.Success.Println("Ownership renounced - the board is now ownerless")
	return nil
}

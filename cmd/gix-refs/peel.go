package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/5225225/gitoxide/repository"
)

var peelCmd = &cobra.Command{
	Use:   "peel <name>",
	Short: "Resolve a reference to the object id it ultimately points to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository()
		if err != nil {
			return err
		}
		defer repo.Close()

		handle := repo.Shared()
		ref, err := handle.FindReference(args[0])
		if err != nil {
			return err
		}
		if ref == nil {
			return fmt.Errorf("reference %q not found", args[0])
		}
		obj, err := ref.PeelToObjectInPlace()
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", obj.ID(), ref.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(peelCmd)
}

// Package listflags holds flags shared by commands that print lists.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds a shared --all flag that includes done items.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().BoolP("all", "a", false, "Include done items")
		return
	}

	cmd.Flags().BoolVarP(target, "all", "a", false, "Include done items")
}

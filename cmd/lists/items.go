package main

import (
	"fmt"
	"strings"

	internalstrings "github.com/amonks/lists/internal/strings"
	"github.com/amonks/lists/listable"
	"github.com/amonks/lists/server"
	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage the items of a list",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <list> <name>...",
	Short: "Add a pending item",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runItemAdd,
}

var itemDoneCmd = &cobra.Command{
	Use:   "done <list> <item>",
	Short: "Mark an item done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runItemStatus(cmd, args, listable.StatusDone)
	},
}

var itemPendingCmd = &cobra.Command{
	Use:   "pending <list> <item>",
	Short: "Mark an item pending again",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runItemStatus(cmd, args, listable.StatusPending)
	},
}

var itemEditCmd = &cobra.Command{
	Use:   "edit <list> <item>",
	Short: "Rename an item or change its notes",
	Args:  cobra.ExactArgs(2),
	RunE:  runItemEdit,
}

var itemRmCmd = &cobra.Command{
	Use:     "rm <list> <item>",
	Aliases: []string{"delete"},
	Short:   "Delete an item",
	Args:    cobra.ExactArgs(2),
	RunE:    runItemRm,
}

var itemOrderCmd = &cobra.Command{
	Use:   "order <list> <item>...",
	Short: "Put items first, in the given order",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runItemOrder,
}

var (
	itemEditName  string
	itemEditNotes string
)

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.AddCommand(itemAddCmd, itemDoneCmd, itemPendingCmd, itemEditCmd, itemRmCmd, itemOrderCmd)

	itemEditCmd.Flags().StringVar(&itemEditName, "name", "", "New name")
	itemEditCmd.Flags().StringVar(&itemEditNotes, "notes", "", "New notes (use '-' to read from stdin)")
}

func runItemAdd(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	l, err := resolveListable(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	name := internalstrings.NormalizeWhitespace(strings.Join(args[1:], " "))
	item, err := client.CreateItem(cmd.Context(), l.ID, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) to %s\n", item.ID, item.Name, l.Name)
	return nil
}

func runItemStatus(cmd *cobra.Command, args []string, status listable.ItemStatus) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	list, err := resolveListWithItems(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	item, err := matchItem(list.Items, args[1])
	if err != nil {
		return err
	}
	updated, err := client.SetItemStatus(cmd.Context(), list.ID, item.ID, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", updated.Name, strings.ToLower(string(updated.Status)))
	return nil
}

func runItemEdit(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	list, err := resolveListWithItems(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	item, err := matchItem(list.Items, args[1])
	if err != nil {
		return err
	}

	req := server.ItemRequest{Name: item.Name, Notes: item.Notes, Status: item.Status}
	if cmd.Flags().Changed("name") {
		req.Name = itemEditName
	}
	if cmd.Flags().Changed("notes") {
		if req.Notes, err = resolveTextFromStdin(itemEditNotes, cmd.InOrStdin()); err != nil {
			return err
		}
	}
	saved, err := client.SaveItem(cmd.Context(), list.ID, item.ID, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", saved.ID, saved.Name)
	return nil
}

func runItemRm(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	list, err := resolveListWithItems(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	item, err := matchItem(list.Items, args[1])
	if err != nil {
		return err
	}
	if err := client.DeleteItem(cmd.Context(), list.ID, item.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", item.ID, item.Name)
	return nil
}

func runItemOrder(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	list, err := resolveListWithItems(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	updates := make([]listable.PriorityUpdate, 0, len(args)-1)
	for i, ref := range args[1:] {
		item, err := matchItem(list.Items, ref)
		if err != nil {
			return err
		}
		updates = append(updates, listable.PriorityUpdate{ID: item.ID, Priority: listable.PriorityHighest + i})
	}
	return client.UpdateItemsOrder(cmd.Context(), list.ID, updates)
}

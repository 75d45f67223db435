package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amonks/lists/internal/editor"
	"github.com/amonks/lists/internal/listflags"
	"github.com/amonks/lists/internal/markdown"
	internalstrings "github.com/amonks/lists/internal/strings"
	"github.com/amonks/lists/internal/ui"
	"github.com/amonks/lists/listable"
	"github.com/amonks/lists/server"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Show the kinds of lists and their subtypes",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List your lists and notes",
	Args:    cobra.NoArgs,
	RunE:    runLs,
}

var showCmd = &cobra.Command{
	Use:   "show <list>",
	Short: "Show a list with its items, or a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var createCmd = &cobra.Command{
	Use:   "create <name>...",
	Short: "Create a list or note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCreate,
}

var editCmd = &cobra.Command{
	Use:   "edit <list>",
	Short: "Change a list's name, type or settings",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <list>",
	Short: "Delete a list you own",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var orderCmd = &cobra.Command{
	Use:   "order <list>...",
	Short: "Put lists first, in the given order",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runOrder,
}

var favCmd = &cobra.Command{
	Use:   "fav <list>",
	Short: "Toggle a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFav,
}

var favsCmd = &cobra.Command{
	Use:   "favs",
	Short: "List your favorites",
	Args:  cobra.NoArgs,
	RunE:  runFavs,
}

var shareCmd = &cobra.Command{
	Use:   "share <list> <user>",
	Short: "Share a list with a user (by id or email)",
	Args:  cobra.ExactArgs(2),
	RunE:  runShare,
}

var unshareCmd = &cobra.Command{
	Use:   "unshare <list> <user>",
	Short: "Stop sharing a list with a user (by id or email)",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnshare,
}

var noteCmd = &cobra.Command{
	Use:   "note <note>",
	Short: "Show or replace a note's content",
	Args:  cobra.ExactArgs(1),
	RunE:  runNote,
}

var (
	lsType   listable.Type
	lsJSON   bool
	showJSON bool
	showYAML bool
	showAll  bool

	createType        listable.Type
	createSubType     string
	createDescription string
	createKeepDone    bool

	editName        string
	editType        listable.Type
	editSubType     string
	editDescription string
	editKeepDone    bool
	editInEditor    bool

	noteSet  string
	noteEdit bool
)

func init() {
	rootCmd.AddCommand(typesCmd, lsCmd, showCmd, createCmd, editCmd, deleteCmd, orderCmd, favCmd, favsCmd, shareCmd, unshareCmd, noteCmd)

	lsCmd.Flags().VarP(newTypeValue(&lsType, ""), "type", "t", "Only show this type (todo, shop, wish, check, note)")
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "Output as JSON")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Output as YAML")
	showCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	listflags.AddAllFlag(showCmd, &showAll)

	createCmd.Flags().VarP(newTypeValue(&createType, listable.TypeToDo), "type", "t", "Type (todo, shop, wish, check, note)")
	createCmd.Flags().StringVarP(&createSubType, "subtype", "s", "", "Subtype (see `lists types`)")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	createCmd.Flags().BoolVar(&createKeepDone, "keep-done", false, "Keep done items visible")

	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().VarP(newTypeValue(&editType, ""), "type", "t", "New type")
	editCmd.Flags().StringVarP(&editSubType, "subtype", "s", "", "New subtype")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	editCmd.Flags().BoolVar(&editKeepDone, "keep-done", false, "Keep done items visible")
	editCmd.Flags().BoolVarP(&editInEditor, "editor", "e", false, "Edit all fields in $EDITOR")

	noteCmd.Flags().StringVar(&noteSet, "set", "", "Replace the content (use '-' to read from stdin)")
	noteCmd.Flags().BoolVarP(&noteEdit, "edit", "e", false, "Edit the content in $EDITOR")
	noteCmd.MarkFlagsMutuallyExclusive("set", "edit")
}

func runTypes(cmd *cobra.Command, _ []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}
	types, err := client.Types(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatTypesTable(types))
	return nil
}

func runLs(cmd *cobra.Command, _ []string) error {
	var filter *listable.Type
	if lsType != "" {
		t := lsType
		filter = &t
	}
	client, err := newClient(true)
	if err != nil {
		return err
	}
	listables, err := client.Listables(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if lsJSON {
		if listables == nil {
			listables = []listable.Listable{}
		}
		return encodeJSON(cmd.OutOrStdout(), listables)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatListablesTable(listables, ui.HighlightID, time.Now()))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	l, err := resolveListable(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}

	var value any = l
	var list listable.ListWithItems
	if l.Type.IsList() {
		if list, err = client.ListWithItems(cmd.Context(), l.ID); err != nil {
			return err
		}
		value = list
	}
	switch {
	case showJSON:
		return encodeJSON(cmd.OutOrStdout(), value)
	case showYAML:
		return encodeYAML(cmd.OutOrStdout(), value)
	}

	width := ui.TerminalWidth()
	if l.IsNote() {
		fmt.Fprint(cmd.OutOrStdout(), formatNote(l, width))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatList(list, width, showAll, ui.HighlightID))
	return nil
}

func formatHeader(l listable.Listable, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ui.Heading(l.Name))
	kind := l.Type.Label()
	if l.SubType != "" {
		kind += " (" + l.SubType.Label() + ")"
	}
	fmt.Fprintf(&b, "%s · %s\n", kind, l.ID)
	if description := strings.TrimSpace(l.Description); description != "" {
		fmt.Fprintf(&b, "\n%s\n", wordwrap.String(description, width))
	}
	return b.String()
}

func formatList(list listable.ListWithItems, width int, all bool, highlight func(string, int) string) string {
	var b strings.Builder
	b.WriteString(formatHeader(list.Listable, width))

	pending := list.PendingItems()
	fmt.Fprintf(&b, "\n%s\n", ui.Heading(fmt.Sprintf("Pending (%s)", printCount(len(pending), "item", "items"))))
	if len(pending) == 0 {
		b.WriteString("Nothing to do.\n")
	} else {
		b.WriteString(formatItemsTable(pending, highlight))
	}
	if list.KeepDoneItems || all {
		done := list.AllDoneItems()
		fmt.Fprintf(&b, "\n%s\n", ui.Heading(fmt.Sprintf("Done (%s)", printCount(len(done), "item", "items"))))
		if len(done) > 0 {
			b.WriteString(formatItemsTable(done, highlight))
		}
	}
	return b.String()
}

func formatNote(l listable.Listable, width int) string {
	var b strings.Builder
	b.WriteString(formatHeader(l, width))
	b.WriteString("\n")
	content := markdown.SafeRender(width, 0, []byte(l.NoteContent))
	if len(content) == 0 {
		b.WriteString("(empty note)\n")
		return b.String()
	}
	b.Write(content)
	b.WriteString("\n")
	return b.String()
}

func runCreate(cmd *cobra.Command, args []string) error {
	description, err := resolveTextFromStdin(createDescription, cmd.InOrStdin())
	if err != nil {
		return err
	}
	client, err := newClient(true)
	if err != nil {
		return err
	}
	created, err := client.CreateListable(cmd.Context(), server.ListableRequest{
		Name:          internalstrings.NormalizeWhitespace(strings.Join(args, " ")),
		Type:          createType,
		SubType:       listable.SubType(createSubType),
		Description:   description,
		KeepDoneItems: createKeepDone,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", created.Type, created.ID, created.Name)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	l, err := resolveListable(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}

	req := server.ListableRequest{
		Name:          l.Name,
		Type:          l.Type,
		SubType:       l.SubType,
		Description:   l.Description,
		KeepDoneItems: l.KeepDoneItems,
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name = editName
	}
	if flags.Changed("type") {
		req.Type = editType
		if !flags.Changed("subtype") {
			req.SubType = ""
		}
	}
	if flags.Changed("subtype") {
		req.SubType = listable.SubType(editSubType)
	}
	if flags.Changed("description") {
		if req.Description, err = resolveTextFromStdin(editDescription, cmd.InOrStdin()); err != nil {
			return err
		}
	}
	if flags.Changed("keep-done") {
		req.KeepDoneItems = editKeepDone
	}
	if editInEditor {
		parsed, err := editor.EditListable(l)
		if err != nil {
			return err
		}
		req.Name = parsed.Name
		req.Type = listable.Type(parsed.Type)
		req.SubType = listable.SubType(parsed.SubType)
		req.KeepDoneItems = parsed.KeepDoneItems
		req.Description = parsed.Description
	}

	saved, err := client.SaveListable(cmd.Context(), l.ID, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", saved.ID, saved.Name)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	l, err := resolveListable(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	if err := client.DeleteListable(cmd.Context(), l.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", l.ID, l.Name)
	return nil
}

func runOrder(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	listables, err := client.Listables(cmd.Context(), nil)
	if err != nil {
		return err
	}
	updates := make([]listable.PriorityUpdate, 0, len(args))
	for i, ref := range args {
		l, err := matchListable(listables, ref)
		if err != nil {
			return err
		}
		updates = append(updates, listable.PriorityUpdate{ID: l.ID, Priority: listable.PriorityHighest + i})
	}
	return client.UpdateListablesPriorities(cmd.Context(), updates)
}

func runFav(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	l, err := resolveListable(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	favorite, err := client.ToggleFavorite(cmd.Context(), l.ID)
	if err != nil {
		return err
	}
	if favorite {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", l.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", l.Name)
	}
	return nil
}

func runFavs(cmd *cobra.Command, _ []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	favorites, err := client.Favorites(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatFavoritesTable(favorites))
	return nil
}

func runShare(cmd *cobra.Command, args []string) error {
	return runSharing(cmd, args, true)
}

func runUnshare(cmd *cobra.Command, args []string) error {
	return runSharing(cmd, args, false)
}

func runSharing(cmd *cobra.Command, args []string, share bool) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	l, err := resolveListable(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	users, err := client.Users(cmd.Context())
	if err != nil {
		return err
	}
	user, err := matchUser(users, args[1])
	if err != nil {
		return err
	}
	if share {
		if _, err := client.Share(cmd.Context(), l.ID, user.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Shared %s with %s\n", l.Name, user.DisplayName())
		return nil
	}
	if _, err := client.Unshare(cmd.Context(), l.ID, user.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped sharing %s with %s\n", l.Name, user.DisplayName())
	return nil
}

func runNote(cmd *cobra.Command, args []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	l, err := resolveListable(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	if !l.IsNote() {
		return fmt.Errorf("%w: %s", listable.ErrNotANote, l.Name)
	}
	if cmd.Flags().Changed("set") || noteEdit {
		var content string
		if noteEdit {
			content, err = editor.EditNote(l)
		} else {
			content, err = resolveTextFromStdin(noteSet, cmd.InOrStdin())
		}
		if err != nil {
			return err
		}
		if l, err = client.SaveNote(cmd.Context(), l.ID, content); err != nil {
			return err
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), formatNote(l, ui.TerminalWidth()))
	return nil
}

func resolveTextFromStdin(value string, reader io.Reader) (string, error) {
	if value != "-" {
		return value, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read from stdin: %w", err)
	}
	return strings.TrimRight(string(input), "\r\n"), nil
}

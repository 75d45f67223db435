package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/lists/internal/ui"
	"github.com/amonks/lists/listable"
)

func formatListablesTable(listables []listable.Listable, highlight func(string, int) string, now time.Time) string {
	if len(listables) == 0 {
		return "No lists found.\n"
	}
	builder := ui.NewTableBuilder([]string{"ID", "TYPE", "NAME", "ITEMS", "FLAGS", "MODIFIED"}, len(listables))
	prefixLengths := ui.UniqueIDPrefixLengths(listableIDs(listables))
	for _, l := range listables {
		items := "-"
		if l.Type.IsList() {
			items = strconv.Itoa(l.NumberOfItems)
		}
		builder.AddRow([]string{
			highlight(l.ID, ui.PrefixLength(prefixLengths, l.ID)),
			string(l.Type),
			ui.TruncateTableCell(l.Name),
			items,
			listableFlags(l),
			ui.FormatModified(l.ModifiedAt, now),
		})
	}
	return builder.String()
}

func listableFlags(l listable.Listable) string {
	var flags []string
	if l.IsFavorite {
		flags = append(flags, "fav")
	}
	if l.IsShared {
		flags = append(flags, "shared")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func listableIDs(listables []listable.Listable) []string {
	values := make([]string, 0, len(listables))
	for _, l := range listables {
		values = append(values, l.ID)
	}
	return values
}

func formatItemsTable(items []listable.Item, highlight func(string, int) string) string {
	values := make([]string, 0, len(items))
	for _, item := range items {
		values = append(values, item.ID)
	}
	prefixLengths := ui.UniqueIDPrefixLengths(values)

	builder := ui.NewTableBuilder([]string{"ID", "STATUS", "NAME", "NOTES"}, len(items))
	for _, item := range items {
		notes := item.Notes
		if strings.TrimSpace(notes) == "" {
			notes = "-"
		}
		builder.AddRow([]string{
			highlight(item.ID, ui.PrefixLength(prefixLengths, item.ID)),
			string(item.Status),
			ui.TruncateTableCell(item.Name),
			ui.TruncateTableCell(notes),
		})
	}
	return builder.String()
}

func formatFavoritesTable(favorites []listable.FavoriteEntry) string {
	if len(favorites) == 0 {
		return "No favorites.\n"
	}
	builder := ui.NewTableBuilder([]string{"ID", "TYPE", "NAME"}, len(favorites))
	for _, entry := range favorites {
		builder.AddRow([]string{entry.ID, string(entry.Type), ui.TruncateTableCell(entry.Name)})
	}
	return builder.String()
}

func formatUsersTable(users []listable.User) string {
	if len(users) == 0 {
		return "No users found.\n"
	}
	builder := ui.NewTableBuilder([]string{"ID", "NAME", "EMAIL"}, len(users))
	for _, user := range users {
		builder.AddRow([]string{user.ID, ui.TruncateTableCell(user.DisplayName()), user.Email})
	}
	return builder.String()
}

func formatTypesTable(types []listable.TypeInfo) string {
	builder := ui.NewTableBuilder([]string{"TYPE", "LABEL", "SUBTYPES"}, len(types))
	for _, info := range types {
		subTypes := make([]string, 0, len(info.SubTypes))
		for _, sub := range info.SubTypes {
			subTypes = append(subTypes, string(sub))
		}
		value := strings.Join(subTypes, ", ")
		if value == "" {
			value = "-"
		}
		builder.AddRow([]string{string(info.Value), info.Label, value})
	}
	return builder.String()
}

func plainID(id string, _ int) string {
	return id
}

func printCount(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/amonks/lists/internal/ids"
	"github.com/amonks/lists/listable"
	"github.com/amonks/lists/server"
)

// matchListable finds a listable by id prefix or, failing that, by name.
func matchListable(listables []listable.Listable, ref string) (listable.Listable, error) {
	values := make([]string, 0, len(listables))
	for _, l := range listables {
		values = append(values, l.ID)
	}
	if id, found, ambiguous := ids.MatchPrefix(values, ref); ambiguous {
		return listable.Listable{}, fmt.Errorf("list id prefix %q is ambiguous", ref)
	} else if found {
		for _, l := range listables {
			if l.ID == id {
				return l, nil
			}
		}
	}

	var matches []listable.Listable
	for _, l := range listables {
		if strings.EqualFold(l.Name, strings.TrimSpace(ref)) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return listable.Listable{}, fmt.Errorf("%w: %q", listable.ErrListableNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return listable.Listable{}, fmt.Errorf("list name %q is ambiguous", ref)
	}
}

// matchItem finds an item by id prefix or, failing that, by name.
func matchItem(items []listable.Item, ref string) (listable.Item, error) {
	values := make([]string, 0, len(items))
	for _, item := range items {
		values = append(values, item.ID)
	}
	if id, found, ambiguous := ids.MatchPrefix(values, ref); ambiguous {
		return listable.Item{}, fmt.Errorf("item id prefix %q is ambiguous", ref)
	} else if found {
		for _, item := range items {
			if item.ID == id {
				return item, nil
			}
		}
	}

	var matches []listable.Item
	for _, item := range items {
		if strings.EqualFold(item.Name, strings.TrimSpace(ref)) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return listable.Item{}, fmt.Errorf("%w: %q", listable.ErrItemNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return listable.Item{}, fmt.Errorf("item name %q is ambiguous", ref)
	}
}

// matchUser finds a user by id or email.
func matchUser(users []listable.User, ref string) (listable.User, error) {
	ref = strings.TrimSpace(ref)
	for _, user := range users {
		if user.ID == ref || strings.EqualFold(user.Email, ref) {
			return user, nil
		}
	}
	return listable.User{}, fmt.Errorf("%w: %q", listable.ErrUserNotFound, ref)
}

func resolveListable(ctx context.Context, client *server.Client, ref string) (listable.Listable, error) {
	listables, err := client.Listables(ctx, nil)
	if err != nil {
		return listable.Listable{}, err
	}
	return matchListable(listables, ref)
}

func resolveListWithItems(ctx context.Context, client *server.Client, ref string) (listable.ListWithItems, error) {
	l, err := resolveListable(ctx, client, ref)
	if err != nil {
		return listable.ListWithItems{}, err
	}
	return client.ListWithItems(ctx, l.ID)
}

func parseCoordinates(latValue, lonValue string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latValue, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid latitude %q", latValue)
	}
	lon, err := strconv.ParseFloat(lonValue, 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("invalid longitude %q", lonValue)
	}
	return lat, lon, nil
}

package main

import (
	"strings"

	"github.com/amonks/lists/listable"
	"github.com/spf13/pflag"
)

// typeValue is a --type flag that only accepts known listable types.
type typeValue struct {
	target *listable.Type
}

var _ pflag.Value = typeValue{}

func newTypeValue(target *listable.Type, def listable.Type) typeValue {
	*target = def
	return typeValue{target: target}
}

func (v typeValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v typeValue) Set(value string) error {
	t := listable.Type(strings.ToLower(strings.TrimSpace(value)))
	if err := listable.ValidateType(t, ""); err != nil {
		return err
	}
	*v.target = t
	return nil
}

func (v typeValue) Type() string {
	return "type"
}

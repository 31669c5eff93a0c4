package util

import (
	"fmt"
	"reflect"
)

// IsStructInitialized returns an error naming the first exported field of the struct
// (or pointer to struct) that still holds its zero value.
// Fields tagged `wire:"-"` are skipped, they are initialized after wire has run.
func IsStructInitialized(s any) error {
	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return fmt.Errorf("struct is nil")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", val.Kind())
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := typ.Field(i)
		if !field.IsExported() || field.Tag.Get("wire") == "-" {
			continue
		}

		if val.Field(i).IsZero() {
			return fmt.Errorf("struct field %q is not initialized", field.Name)
		}
	}

	return nil
}

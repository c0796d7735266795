// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/tfctl/rowdiff/internal/log"
)

// schemaTag is a dataset key discovered from an attr struct tag.
type schemaTag struct {
	Name string
	Type string
}

// DumpSchema writes the dataset keys of typ, in field order, to w. These are
// the keys accepted by --attrs, --filter, --where and --sort. If w is nil,
// os.Stdout is used.
func DumpSchema(typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w, "Dataset keys available to --attrs, --filter, --where and --sort.")
	fmt.Fprintln(w, "")

	tags := schemaWalker(typ)
	if len(tags) == 0 {
		log.Debugf("no attr tags: type=%s", typ.Name())
		return
	}

	width := 0
	for _, tag := range tags {
		width = max(width, len(tag.Name))
	}
	for _, tag := range tags {
		fmt.Fprintf(w, "%-*s  %s\n", width, tag.Name, tag.Type)
	}
}

// schemaWalker collects the attr tags of a struct type.
func schemaWalker(typ reflect.Type) []schemaTag {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	tags := make([]schemaTag, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		tagValue, ok := field.Tag.Lookup("attr")
		if !ok {
			continue
		}
		name := strings.Split(tagValue, ",")[0]
		if name == "" || name == "-" {
			continue
		}

		tags = append(tags, schemaTag{Name: name, Type: kindName(field.Type)})
	}

	return tags
}

func kindName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.Bool:
		return "bool"
	default:
		return "string"
	}
}

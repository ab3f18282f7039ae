package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"reflect"
	"strings"

	"dto-generator/internal/descriptor"
)

const directivePrefix = "//dto:"

// Tag keys read from struct fields.
const (
	TagKey     = "dto"
	TagIntoKey = "dto_into"
	TagFromKey = "dto_from"
)

var errInvalidTag = errors.New("invalid dto tag")

// directives are the key/value pairs of //dto: comment lines.
type directives map[string]string

func (d directives) has(key string) bool {
	_, ok := d[key]
	return ok
}

// parseDirectives collects //dto:key=value and //dto:flag lines from the
// comment groups. Later groups override earlier ones.
func parseDirectives(groups ...*ast.CommentGroup) directives {
	d := directives{}

	for _, g := range groups {
		if g == nil {
			continue
		}

		for _, c := range g.List {
			text, ok := strings.CutPrefix(c.Text, directivePrefix)
			if !ok {
				continue
			}

			key, value, _ := strings.Cut(strings.TrimSpace(text), "=")
			d[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}

	return d
}

// fieldTag holds the parsed dto tags of one struct field.
type fieldTag struct {
	name     string
	skip     bool
	required bool
	into     descriptor.IntoDirectives
	from     descriptor.FromDirectives
}

// parseFieldTag parses the dto, dto_into and dto_from keys of a struct tag.
func parseFieldTag(tag reflect.StructTag) (fieldTag, error) {
	var ft fieldTag

	if v, ok := tag.Lookup(TagKey); ok {
		if v == "-" {
			ft.skip = true
			return ft, nil
		}

		err := eachOption(v, func(key, value string) error {
			switch key {
			case "name":
				ft.name = value
			case "skip":
				ft.skip = true
			case "required":
				ft.required = true
			default:
				return fmt.Errorf("%w: unknown option %q in %s", errInvalidTag, key, TagKey)
			}

			return nil
		})
		if err != nil {
			return ft, err
		}
	}

	if v, ok := tag.Lookup(TagIntoKey); ok {
		m, absent, err := parseMapperTag(TagIntoKey, v)
		if err != nil {
			return ft, err
		}

		if absent {
			return ft, fmt.Errorf("%w: always_none is only valid in %s", errInvalidTag, TagFromKey)
		}

		ft.into.Mapper = m
	}

	if v, ok := tag.Lookup(TagFromKey); ok {
		m, absent, err := parseMapperTag(TagFromKey, v)
		if err != nil {
			return ft, err
		}

		ft.from.Mapper = m
		ft.from.AlwaysAbsent = absent
	}

	return ft, nil
}

func parseMapperTag(key, v string) (*descriptor.Mapper, bool, error) {
	var (
		m      descriptor.Mapper
		absent bool
	)

	err := eachOption(v, func(opt, value string) error {
		switch opt {
		case "map":
			m.Func = value
		case "by_ref":
			m.ByRef = true
		case "always_none":
			absent = true
		default:
			return fmt.Errorf("%w: unknown option %q in %s", errInvalidTag, opt, key)
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if m.Func == "" {
		if m.ByRef {
			return nil, false, fmt.Errorf("%w: by_ref without map in %s", errInvalidTag, key)
		}

		return nil, absent, nil
	}

	return &m, absent, nil
}

// eachOption calls fn for every comma-separated key[=value] option.
func eachOption(v string, fn func(key, value string) error) error {
	for opt := range strings.SplitSeq(v, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}

		key, value, _ := strings.Cut(opt, "=")
		if err := fn(key, value); err != nil {
			return err
		}
	}

	return nil
}

// directions parses the derive directive.
func (d directives) directions() ([]descriptor.DirectionKind, error) {
	v, ok := d["derive"]
	if !ok {
		return nil, nil
	}

	var kinds []descriptor.DirectionKind

	for s := range strings.SplitSeq(v, ",") {
		k, ok := descriptor.ParseDirectionKind(strings.TrimSpace(s))
		if !ok {
			return nil, fmt.Errorf("invalid derive direction %q", s)
		}

		kinds = append(kinds, k)
	}

	return kinds, nil
}

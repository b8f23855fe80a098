package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/epp/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files
// whose flag values are held in the top-level mapping named key:
//
//	config:
//	  epsilon: 1e-9
//	  log:
//	    level: debug
//	    pretty: false
//
// Nested mappings are joined with hyphens to form flag names, so the
// example sets --epsilon, --log-level, and --no-log-pretty. Underscores may
// be used in place of hyphens. A file that does not parse is ignored with a
// warning; command-line flags always override configured values.
func resolve(ctx context.Context, key string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring configuration",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)

			return config{}, nil
		}

		section, _ := doc[key].(map[string]any)

		c := config{}
		c.flatten("", section)

		return c, nil
	}
}

// config implements [kong.Resolver] over flattened flag values.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		name := prefix + strings.ReplaceAll(k, "_", "-")

		switch v := v.(type) {
		case map[string]any:
			c.flatten(name+"-", v)

		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = scalar(item)
			}

			c[name] = strings.Join(items, ",")

		case bool:
			c[name] = v

		case nil:

		default:
			c[name] = scalar(v)
		}
	}
}

// scalar renders v the way it would be written on the command line.
func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// Keys returns the configured flag names in sorted order.
func (c config) Keys() []string { return slices.Sorted(maps.Keys(c)) }

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}

package app

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pscheid92/helpful/internal/domain"
)

var _ domain.OptionSource = (*Options)(nil)

// Options resolves site options from the options table, falling back to the
// deployment defaults when a row is absent or the table cannot be read.
type Options struct {
	repo     domain.OptionRepository
	defaults map[string]string
}

// NewOptions creates an option source. repo may be nil, in which case only
// the defaults are consulted.
func NewOptions(repo domain.OptionRepository, defaults map[string]string) *Options {
	return &Options{repo: repo, defaults: defaults}
}

func (o *Options) Option(ctx context.Context, name, def string) string {
	if o.repo != nil {
		value, ok, err := o.repo.Get(ctx, name)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "Failed to read option, using default", "option", name, "error", err)
		case ok:
			return value
		}
	}
	if value, ok := o.defaults[name]; ok && value != "" {
		return value
	}
	return def
}

const defaultWidgetAmount = 3

// widgetAmount returns limit, or the configured helpful_widget_amount when
// limit is not positive.
func widgetAmount(ctx context.Context, options domain.OptionSource, limit int) int {
	if limit > 0 {
		return limit
	}
	n, err := strconv.Atoi(strings.TrimSpace(options.Option(ctx, domain.OptionWidgetAmount, strconv.Itoa(defaultWidgetAmount))))
	if err != nil || n <= 0 {
		return defaultWidgetAmount
	}
	return n
}

// postTypes splits the comma separated helpful_post_types option.
func postTypes(ctx context.Context, options domain.OptionSource) []string {
	raw := options.Option(ctx, domain.OptionPostTypes, "post")
	var types []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			types = append(types, part)
		}
	}
	return types
}

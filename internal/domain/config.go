package domain

import "context"

// Recognized site option names.
const (
	OptionCacheTime    = "helpful_cache_time"
	OptionCaching      = "helpful_caching"
	OptionPostTypes    = "helpful_post_types"
	OptionWidgetAmount = "helpful_widget_amount"
)

// OptionRepository reads stored site options. A missing option returns
// ok == false and no error.
type OptionRepository interface {
	Get(ctx context.Context, name string) (value string, ok bool, err error)
}

// OptionSource resolves a named option, falling back to def when the option
// is unset or cannot be read.
type OptionSource interface {
	Option(ctx context.Context, name, def string) string
}

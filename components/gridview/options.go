package gridview

import (
	"net/http"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

// Source is what the grid handler reads per request: the full collection in
// server order plus the fields the filter matches against. A collection store
// satisfies it directly.
type Source interface {
	Items() []resource.Record
	SearchFields() []string
}

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath       string
	SearchParam     string
	PageParam       string
	PageSizeParam   string
	DefaultPageSize int
	MaxPageSize     int
	Guard           GuardFunc

	Source Source
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/records",
		SearchParam:     "q",
		PageParam:       "page",
		PageSizeParam:   "pageSize",
		DefaultPageSize: 10,
		MaxPageSize:     100,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 10
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/records"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.PageParam == "" {
		opts.PageParam = "page"
	}
	if opts.PageSizeParam == "" {
		opts.PageSizeParam = "pageSize"
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

func WithPageParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PageParam = name
	}
}

func WithPageSizeParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PageSizeParam = name
	}
}

func WithDefaultPageSize(size int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultPageSize = size
	}
}

func WithMaxPageSize(size int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxPageSize = size
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithSource(source Source) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Source = source
	}
}

func clampPageSize(size int, opts Options) int {
	if size <= 0 {
		size = opts.DefaultPageSize
	}
	if opts.MaxPageSize > 0 && size > opts.MaxPageSize {
		return opts.MaxPageSize
	}
	return size
}

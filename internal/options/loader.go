package options

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
)

// Fetcher reads the raw rows of a reference sheet
type Fetcher interface {
	FetchListData(ctx context.Context, sheet string) ([]domain.Row, error)
}

// Lists holds the display strings of every option list
type Lists map[domain.OptionList][]string

// Get returns the values for one list, never nil
func (l Lists) Get(list domain.OptionList) []string {
	if values, ok := l[list]; ok && values != nil {
		return values
	}
	return []string{}
}

// Result is the outcome of loading all option lists. A list that failed is
// present in Lists as an empty slice and its error is kept in Errors.
type Result struct {
	Lists  Lists
	Errors map[domain.OptionList]error
}

// Failed reports whether any list could not be loaded
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Loader fetches option lists from the reference sheets
type Loader struct {
	fetcher Fetcher
	logger  logrus.FieldLogger
}

// NewLoader creates a new loader
func NewLoader(fetcher Fetcher, logger logrus.FieldLogger) *Loader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loader{fetcher: fetcher, logger: logger}
}

// LoadList fetches and normalizes a single option list
func (l *Loader) LoadList(ctx context.Context, list domain.OptionList) ([]string, error) {
	rows, err := l.fetcher.FetchListData(ctx, list.Sheet())
	if err != nil {
		return nil, err
	}
	return list.Values(rows), nil
}

// Load fetches every option list concurrently. Lists share nothing, so one
// failing never keeps the others from populating.
func (l *Loader) Load(ctx context.Context) *Result {
	values := make([][]string, len(domain.OptionLists))
	errs := make([]error, len(domain.OptionLists))

	var g errgroup.Group
	for i, list := range domain.OptionLists {
		i, list := i, list
		g.Go(func() error {
			values[i], errs[i] = l.LoadList(ctx, list)
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{
		Lists:  make(Lists, len(domain.OptionLists)),
		Errors: make(map[domain.OptionList]error),
	}
	for i, list := range domain.OptionLists {
		if errs[i] != nil {
			l.logger.WithError(errs[i]).WithFields(logrus.Fields{
				"list":  list,
				"sheet": list.Sheet(),
			}).Warn("option list unavailable")
			result.Lists[list] = []string{}
			result.Errors[list] = errs[i]
			continue
		}
		result.Lists[list] = values[i]
	}

	return result
}

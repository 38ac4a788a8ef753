package docpager

// RawPager is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawPager `json:",inline"`
//	}
type RawPager struct {
	// Page - 1-based page number. Values below 1 select the first page.
	Page *int `json:"page,omitempty"`
	// Limit - maximum number of records per page. Values below 1 disable the limit.
	Limit *int `json:"limit,omitempty"`
	// Sort - column aliases, e.g. ["-createdAt", "email asc"].
	Sort []string `json:"sort,omitempty"`
	// Select - space or comma separated projection, e.g. "email -password".
	Select string `json:"select,omitempty"`
	// Labels - envelope key overrides, e.g. {"docs": "items", "pagingCounter": "-"}.
	Labels map[string]string `json:"labels,omitempty"`
}

// Decode converts RawPager into a call-level *Options. Sort aliases are
// resolved through columnMapping; a nil mapping accepts column names as is.
// Absent page and limit stay absent so that global settings still apply.
func (p RawPager) Decode(columnMapping ColumnMapping) (*Options, error) {
	sort, err := ParseSort(p.Sort, columnMapping)
	if err != nil {
		return nil, err
	}

	labels, err := ParseLabels(p.Labels)
	if err != nil {
		return nil, err
	}

	opts := NewOptions().WithSubstitutedSort(sort...)
	if p.Page != nil {
		opts = opts.WithPage(*p.Page)
	}
	if p.Limit != nil {
		opts = opts.WithLimit(*p.Limit)
	}
	if fields := ParseFields(p.Select); len(fields) > 0 {
		opts = opts.WithSelect(fields...)
	}
	for field, label := range labels {
		opts = opts.WithLabel(field, label)
	}

	return opts, nil
}

package domain

import (
	"strings"

	"github.com/smallbiznis/orderdesk/pkg/db/option"
	"github.com/smallbiznis/orderdesk/pkg/validation"
)

const (
	SortID              = "id"
	SortPriceAsc        = "price_asc"
	SortPriceDesc       = "price_desc"
	SortDescriptionAsc  = "description_asc"
	SortDescriptionDesc = "description_desc"
)

var sortColumns = map[string][]option.OrderBy{
	SortID:              {option.Asc("id")},
	SortPriceAsc:        {option.Asc("price"), option.Asc("id")},
	SortPriceDesc:       {option.Desc("price"), option.Asc("id")},
	SortDescriptionAsc:  {option.Asc("description"), option.Asc("id")},
	SortDescriptionDesc: {option.Desc("description"), option.Asc("id")},
}

// ResolveSort maps a sort key to ORDER BY columns. Empty means SortID.
func ResolveSort(key string) ([]option.OrderBy, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		key = SortID
	}
	columns, ok := sortColumns[key]
	if !ok {
		return nil, validation.New("sort", "invalid",
			"sort must be one of id, price_asc, price_desc, description_asc, description_desc")
	}
	return columns, nil
}

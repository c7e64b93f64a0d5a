package cards

import "fmt"

const (
	DefaultItemsPerPage = 10
	MaxItemsPerPage     = 50
)

// CardListRequest carries search, filter and pagination parameters for the
// catalog listing. Family-specific attribute filters are only valid together
// with the matching Type.
type CardListRequest struct {
	Page         int `form:"page"`
	ItemsPerPage int `form:"itemsPerPage"`

	Query string   `form:"query"`
	Type  CardType `form:"type"`

	AttrInkCost []int      `form:"attrInkCost"`
	AttrColor   []MTGColor `form:"attrColor"`
	AttrRarity  []string   `form:"attrRarity"`
}

// Normalize applies pagination defaults and bounds.
func (r *CardListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.ItemsPerPage < 1 {
		r.ItemsPerPage = DefaultItemsPerPage
	}
	if r.ItemsPerPage > MaxItemsPerPage {
		r.ItemsPerPage = MaxItemsPerPage
	}
}

// Validate rejects unknown enum values and attribute filters that do not belong
// to the requested family.
func (r *CardListRequest) Validate() error {
	if r.Type != "" && !r.Type.Valid() {
		return fmt.Errorf("unknown card type %q", r.Type)
	}
	for _, c := range r.AttrColor {
		if !c.Valid() {
			return fmt.Errorf("unknown color %q", c)
		}
	}
	switch r.Type {
	case CardTypeLorcana:
		if len(r.AttrColor) > 0 {
			return fmt.Errorf("invalid Lorcana attributes: color filter not supported")
		}
		for _, ic := range r.AttrInkCost {
			if ic < 0 || ic > 10 {
				return fmt.Errorf("invalid Lorcana attributes: ink cost %d out of range", ic)
			}
		}
		for _, ra := range r.AttrRarity {
			if !LorcanaRarity(ra).Valid() {
				return fmt.Errorf("invalid Lorcana attributes: unknown rarity %q", ra)
			}
		}
	case CardTypeMagicTheGathering:
		if len(r.AttrInkCost) > 0 {
			return fmt.Errorf("invalid Magic The Gathering attributes: ink cost filter not supported")
		}
		for _, ra := range r.AttrRarity {
			if !MTGRarity(ra).Valid() {
				return fmt.Errorf("invalid Magic The Gathering attributes: unknown rarity %q", ra)
			}
		}
	default:
		for _, ra := range r.AttrRarity {
			if !LorcanaRarity(ra).Valid() && !MTGRarity(ra).Valid() {
				return fmt.Errorf("unknown rarity %q", ra)
			}
		}
	}
	return nil
}

type Pagination struct {
	Page         int   `json:"page"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int64 `json:"totalPages"`
}

type CardListResponse struct {
	Items      []CardView `json:"items"`
	Pagination Pagination `json:"pagination"`
}

package ingestion

import (
	"encoding/json"
	"fmt"
	"math"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
)

// Raw record shapes as they appear in the source dumps. Pointer fields so that
// a missing key is distinguishable from a zero value; a type mismatch surfaces
// as an unmarshal error. Both are schema rejections.

type lorcanaRaw struct {
	ID       *string  `json:"id"`
	Name     *string  `json:"name"`
	InkCost  *float64 `json:"ink_cost"`
	Rarity   *string  `json:"rarity"`
	ImageURL *string  `json:"image_url"`
}

func (r *lorcanaRaw) check() error {
	if r.ID == nil {
		return fmt.Errorf("missing required field %q", "id")
	}
	if r.Name == nil {
		return fmt.Errorf("missing required field %q", "name")
	}
	if r.InkCost == nil {
		return fmt.Errorf("missing required field %q", "ink_cost")
	}
	if r.Rarity == nil {
		return fmt.Errorf("missing required field %q", "rarity")
	}
	return nil
}

type mtgRaw struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	Rarity   *string `json:"rarity"`
	ImageURL *string `json:"image_url"`
}

func (r *mtgRaw) check() error {
	if r.ID == nil {
		return fmt.Errorf("missing required field %q", "id")
	}
	if r.Name == nil {
		return fmt.Errorf("missing required field %q", "name")
	}
	if r.Rarity == nil {
		return fmt.Errorf("missing required field %q", "rarity")
	}
	return nil
}

// decodeLorcana validates the raw shape and normalizes it into a canonical
// Card. Shape problems and normalization problems (ink cost out of range,
// rarity outside the enum) are the same per-record rejection category.
func decodeLorcana(raw json.RawMessage) (*types.Card, error) {
	var rec lorcanaRaw
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if err := rec.check(); err != nil {
		return nil, err
	}
	if *rec.InkCost != math.Trunc(*rec.InkCost) {
		return nil, fmt.Errorf("ink_cost %v is not an integer", *rec.InkCost)
	}
	inkCost := int(*rec.InkCost)

	card := &types.Card{
		CardID:  *rec.ID,
		Name:    *rec.Name,
		Type:    types.CardTypeLorcana,
		InkCost: &inkCost,
		Rarity:  *rec.Rarity,
	}
	if rec.ImageURL != nil {
		card.ImageURL = *rec.ImageURL
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

func decodeMTG(raw json.RawMessage) (*types.Card, error) {
	var rec mtgRaw
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if err := rec.check(); err != nil {
		return nil, err
	}

	card := &types.Card{
		CardID: *rec.ID,
		Name:   *rec.Name,
		Type:   types.CardTypeMagicTheGathering,
		Color:  rec.Color,
		Rarity: *rec.Rarity,
	}
	if rec.ImageURL != nil {
		card.ImageURL = *rec.ImageURL
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

package cards

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardType string

const (
	CardTypeLorcana           CardType = "lorcana"
	CardTypeMagicTheGathering CardType = "magic_the_gathering"
)

func (t CardType) Valid() bool {
	switch t {
	case CardTypeLorcana, CardTypeMagicTheGathering:
		return true
	}
	return false
}

type LorcanaRarity string

const (
	LorcanaRarityCommon    LorcanaRarity = "Common"
	LorcanaRarityEnchanted LorcanaRarity = "Enchanted"
	LorcanaRarityLegendary LorcanaRarity = "Legendary"
	LorcanaRarityPromo     LorcanaRarity = "Promo"
	LorcanaRarityRare      LorcanaRarity = "Rare"
	LorcanaRaritySuperRare LorcanaRarity = "Super Rare"
	LorcanaRarityUncommon  LorcanaRarity = "Uncommon"
)

func (r LorcanaRarity) Valid() bool {
	switch r {
	case LorcanaRarityCommon, LorcanaRarityEnchanted, LorcanaRarityLegendary,
		LorcanaRarityPromo, LorcanaRarityRare, LorcanaRaritySuperRare, LorcanaRarityUncommon:
		return true
	}
	return false
}

type MTGColor string

const (
	MTGColorBlue  MTGColor = "U"
	MTGColorBlack MTGColor = "B"
	MTGColorGreen MTGColor = "G"
	MTGColorRed   MTGColor = "R"
	MTGColorWhite MTGColor = "W"
)

func (c MTGColor) Valid() bool {
	switch c {
	case MTGColorBlue, MTGColorBlack, MTGColorGreen, MTGColorRed, MTGColorWhite:
		return true
	}
	return false
}

type MTGRarity string

const (
	MTGRarityCommon   MTGRarity = "common"
	MTGRarityMythic   MTGRarity = "mythic"
	MTGRarityRare     MTGRarity = "rare"
	MTGRaritySpecial  MTGRarity = "special"
	MTGRarityUncommon MTGRarity = "uncommon"
)

func (r MTGRarity) Valid() bool {
	switch r {
	case MTGRarityCommon, MTGRarityMythic, MTGRarityRare, MTGRaritySpecial, MTGRarityUncommon:
		return true
	}
	return false
}

// Card is the canonical catalog entity. CardID is the stable external identifier
// (unique across both game families); ID is the storage identifier. The family
// discriminant is Type, and exactly one attribute shape is populated to match it:
// InkCost for Lorcana, Color for Magic The Gathering, Rarity for both (each family
// with its own closed value set).
type Card struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	CardID   string    `gorm:"column:card_id;uniqueIndex;not null" json:"id"`
	Name     string    `gorm:"column:name;not null" json:"name"`
	Type     CardType  `gorm:"column:type;not null;index" json:"type"`
	ImageURL string    `gorm:"column:image_url" json:"imageUrl,omitempty"`

	InkCost *int    `gorm:"column:ink_cost" json:"-"`
	Color   *string `gorm:"column:color" json:"-"`
	Rarity  string  `gorm:"column:rarity;not null" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Card) TableName() string { return "cards" }

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Validate enforces the per-family attribute shape. It is the invariant gate for
// everything entering the store; the importer funnels every normalized record
// through it.
func (c *Card) Validate() error {
	if c.CardID == "" {
		return fmt.Errorf("card id required")
	}
	if c.Name == "" {
		return fmt.Errorf("card name required")
	}
	switch c.Type {
	case CardTypeLorcana:
		if c.InkCost == nil {
			return fmt.Errorf("lorcana card %q: ink cost required", c.CardID)
		}
		if *c.InkCost < 0 || *c.InkCost > 10 {
			return fmt.Errorf("lorcana card %q: ink cost %d out of range [0,10]", c.CardID, *c.InkCost)
		}
		if !LorcanaRarity(c.Rarity).Valid() {
			return fmt.Errorf("lorcana card %q: unknown rarity %q", c.CardID, c.Rarity)
		}
		if c.Color != nil {
			return fmt.Errorf("lorcana card %q: color not allowed", c.CardID)
		}
	case CardTypeMagicTheGathering:
		if !MTGRarity(c.Rarity).Valid() {
			return fmt.Errorf("mtg card %q: unknown rarity %q", c.CardID, c.Rarity)
		}
		if c.Color != nil && !MTGColor(*c.Color).Valid() {
			return fmt.Errorf("mtg card %q: unknown color %q", c.CardID, *c.Color)
		}
		if c.InkCost != nil {
			return fmt.Errorf("mtg card %q: ink cost not allowed", c.CardID)
		}
	default:
		return fmt.Errorf("card %q: unknown type %q", c.CardID, c.Type)
	}
	return nil
}

// CardAttributes is the family-specific attribute block exposed over the API.
type CardAttributes struct {
	InkCost *int    `json:"inkCost,omitempty"`
	Color   *string `json:"color,omitempty"`
	Rarity  string  `json:"rarity"`
}

// CardView is the API shape of a card, attributes nested the way clients expect.
type CardView struct {
	StorageID  string         `json:"_id"`
	CardID     string         `json:"id"`
	Name       string         `json:"name"`
	Type       CardType       `json:"type"`
	ImageURL   string         `json:"imageUrl,omitempty"`
	Attributes CardAttributes `json:"attributes"`
}

func (c *Card) View() CardView {
	return CardView{
		StorageID: c.ID.String(),
		CardID:    c.CardID,
		Name:      c.Name,
		Type:      c.Type,
		ImageURL:  c.ImageURL,
		Attributes: CardAttributes{
			InkCost: c.InkCost,
			Color:   c.Color,
			Rarity:  c.Rarity,
		},
	}
}

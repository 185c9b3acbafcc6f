package models

import "github.com/shopspring/decimal"

// CartItem represents a line in the cart. Price is the unit price captured
// when the line was added and is never re-read from the catalog.
type CartItem struct {
	ID                string          `bson:"id" json:"id"`
	JuiceID           string          `bson:"juice_id,omitempty" json:"juiceId,omitempty"`
	DishID            string          `bson:"dish_id,omitempty" json:"dishId,omitempty"`
	Quantity          int             `bson:"quantity" json:"quantity"`
	Price             decimal.Decimal `bson:"price" json:"price"`
	IsCustom          bool            `bson:"is_custom,omitempty" json:"isCustom,omitempty"`
	CustomName        string          `bson:"custom_name,omitempty" json:"customName,omitempty"`
	CustomIngredients []string        `bson:"custom_ingredients,omitempty" json:"customIngredients,omitempty"`
}

// LineTotal is price × quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SameProduct reports whether two non-custom lines reference the same catalog product
func (i CartItem) SameProduct(other CartItem) bool {
	if i.IsCustom || other.IsCustom {
		return false
	}
	return (i.JuiceID != "" && i.JuiceID == other.JuiceID) ||
		(i.DishID != "" && i.DishID == other.DishID)
}

// OwnerKind tells guest carts from user carts
type OwnerKind string

const (
	OwnerGuest         OwnerKind = "guest"
	OwnerAuthenticated OwnerKind = "user"
)

// CartOwner is either Guest(sessionID) or Authenticated(userID)
type CartOwner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

func Guest(sessionID string) CartOwner {
	return CartOwner{Kind: OwnerGuest, ID: sessionID}
}

func Authenticated(userID string) CartOwner {
	return CartOwner{Kind: OwnerAuthenticated, ID: userID}
}

// Key is the storage key of the owner's cart, e.g. "guest:3f2a..." or "user:user-0190..."
func (o CartOwner) Key() string {
	return string(o.Kind) + ":" + o.ID
}

func (o CartOwner) String() string {
	return o.Key()
}

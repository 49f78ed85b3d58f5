package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Jersey is the item snapshot captured inside an order line. It is
// decoupled from the live catalogue: price changes after submission never
// touch existing orders.
type Jersey struct {
	Name  string  `bson:"name" json:"name" validate:"required"`
	Price float64 `bson:"price" json:"price" validate:"gte=0"`
}

// CartLine is one cart entry captured at order time.
type CartLine struct {
	Jersey   Jersey `bson:"jersey" json:"jersey"`
	Quantity int    `bson:"quantity" json:"quantity" validate:"required,gte=1"`
}

// Subtotal returns price × quantity for this line.
func (l CartLine) Subtotal() float64 {
	return l.Jersey.Price * float64(l.Quantity)
}

// Order is the persisted order document (collection "commandes").
//
// Created once by a public submission; afterwards only the livree flag may
// change, or the document is deleted by an admin. Line items are never
// edited in place.
type Order struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Location string             `bson:"location" json:"location"`
	Contact  string             `bson:"contact" json:"contact"`
	Cart     []CartLine         `bson:"cart" json:"cart"`
	Date     string             `bson:"date" json:"date"`
	Livree   bool               `bson:"livree" json:"livree"`
}

// Total returns the amount owed for the whole order.
func (o Order) Total() float64 {
	var total float64
	for _, line := range o.Cart {
		total += line.Subtotal()
	}
	return total
}

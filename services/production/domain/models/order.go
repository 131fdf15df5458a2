package models

import "time"

// Order is read from the order book; production never writes it.
type Order struct {
	ID             string
	CustomerName   string
	DeliveryDate   time.Time
	ProductDetails []OrderLine
}

// OrderLine seeds one (order, product, target) triple.
type OrderLine struct {
	Code     string
	Name     string
	Quantity int
}

// Line returns the line for productCode.
func (o *Order) Line(productCode string) (OrderLine, bool) {
	for _, l := range o.ProductDetails {
		if l.Code == productCode {
			return l, true
		}
	}
	return OrderLine{}, false
}

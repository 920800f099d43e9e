package basket

import (
	"time"

	"github.com/MarcGrol/basketservice/services/basketapi"
)

// Basket is the stored representation: one basket per owner, replaced
// wholesale on every update.
type Basket struct {
	OwnerUID     string
	CreatedAt    time.Time
	LastModified *time.Time
	Lines        []BasketLine
}

// BasketLine has no lifecycle of its own; it only exists inside a Basket.
// At most one line per product.
type BasketLine struct {
	ProductID int64
	Quantity  int
}

func newBasket(ownerUID string, request basketapi.Basket, now time.Time) Basket {
	lines := make([]BasketLine, 0, len(request.Items))
	for _, item := range request.Items {
		lines = append(lines, BasketLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return Basket{
		OwnerUID:     ownerUID,
		CreatedAt:    now,
		LastModified: &now,
		Lines:        lines,
	}
}

func (b Basket) toAPI() basketapi.Basket {
	result := basketapi.EmptyBasket()
	for _, line := range b.Lines {
		result.Items = append(result.Items, basketapi.BasketItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return result
}

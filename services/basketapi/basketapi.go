package basketapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/basketservice/lib/myerrors"
)

// Basket is the wire representation used by all three RPC methods.
type Basket struct {
	Items []BasketItem `json:"items" form:"items"`
}

type BasketItem struct {
	ProductID int64 `json:"productId" form:"productId"`
	Quantity  int   `json:"quantity" form:"quantity"`
}

func EmptyBasket() Basket {
	return Basket{Items: []BasketItem{}}
}

// NewFromRequest decodes an update-request. The web front-end posts regular
// form-encoded bodies, programmatic callers send JSON.
func NewFromRequest(r *http.Request) (Basket, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		err := r.ParseForm()
		if err != nil {
			return Basket{}, myerrors.NewInvalidInputError(err)
		}
		return NewFromValues(r.Form)
	}

	basket := Basket{}
	err := json.NewDecoder(r.Body).Decode(&basket)
	if err != nil {
		return Basket{}, myerrors.NewInvalidInputError(fmt.Errorf("error decoding json: %s", err))
	}

	return normalize(basket)
}

func NewFromValues(values url.Values) (Basket, error) {
	basket := Basket{}
	err := formcodec.NewDecoder().Decode(&basket, values)
	if err != nil {
		return basket, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	return normalize(basket)
}

// normalize validates the lines and collapses duplicate products: the last
// line for a product wins. Line order of first occurrence is kept so that
// replaying an identical request yields an identical result.
func normalize(basket Basket) (Basket, error) {
	quantities := map[int64]int{}
	order := []int64{}

	for _, item := range basket.Items {
		if item.ProductID <= 0 {
			return Basket{}, myerrors.NewInvalidInputErrorf("invalid productId %d", item.ProductID)
		}
		if item.Quantity <= 0 {
			return Basket{}, myerrors.NewInvalidInputErrorf("invalid quantity %d for product %d", item.Quantity, item.ProductID)
		}

		if _, seen := quantities[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] = item.Quantity
	}

	normalized := EmptyBasket()
	for _, productID := range order {
		normalized.Items = append(normalized.Items, BasketItem{
			ProductID: productID,
			Quantity:  quantities[productID],
		})
	}

	return normalized, nil
}

package basket

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MarcGrol/basketservice/lib/mycontext"
	"github.com/MarcGrol/basketservice/lib/myerrors"
	"github.com/MarcGrol/basketservice/lib/mylog"
	"github.com/MarcGrol/basketservice/services/basket/basketevents"
	"github.com/MarcGrol/basketservice/services/basketapi"
)

const (
	getBasketEndpoint    = "GetBasket"
	updateBasketEndpoint = "UpdateBasket"
	deleteBasketEndpoint = "DeleteBasket"
)

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, basketevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", basketevents.TopicName, err)
	}

	return nil
}

func (s *service) getBasket(c context.Context) (basketapi.Basket, error) {
	result := basketapi.EmptyBasket()

	err := s.instr.instrumented(c, getBasketEndpoint, func(c context.Context, span trace.Span) error {
		ownerUID := mycontext.CallerUID(c)
		span.SetAttributes(
			attribute.String(ownerAttr, RedactOwner(ownerUID)),
			attribute.String(methodAttr, getBasketEndpoint),
		)

		if ownerUID == "" {
			// An anonymous read is served as an empty basket, but still counts as an error
			s.instr.countError(c, getBasketEndpoint)
			s.logger.Log(c, "", mylog.SeverityWarn, "Anonymous caller on %s: serving empty basket", getBasketEndpoint)
			span.SetAttributes(attribute.Int(responseItemCountAttr, 0))
			return nil
		}

		s.logger.Log(c, ownerUID, mylog.SeverityInfo, "Fetch basket of owner %s", RedactOwner(ownerUID))

		basket, found, err := s.basketStore.Get(c, ownerUID)
		if err != nil {
			// Store errors surface unchanged
			return err
		}
		if found {
			result = basket.toAPI()
		}

		span.SetAttributes(attribute.Int(responseItemCountAttr, len(result.Items)))
		return nil
	})
	if err != nil {
		return basketapi.EmptyBasket(), err
	}

	return result, nil
}

func (s *service) replaceBasket(c context.Context, request basketapi.Basket) (basketapi.Basket, error) {
	result := basketapi.EmptyBasket()

	err := s.instr.instrumented(c, updateBasketEndpoint, func(c context.Context, span trace.Span) error {
		ownerUID := mycontext.CallerUID(c)
		span.SetAttributes(
			attribute.String(ownerAttr, RedactOwner(ownerUID)),
			attribute.String(methodAttr, updateBasketEndpoint),
			attribute.Int(requestItemCountAttr, len(request.Items)),
		)

		if ownerUID == "" {
			s.instr.countError(c, updateBasketEndpoint)
			return myerrors.NewUnauthenticatedError(fmt.Errorf("basket update requires an authenticated caller"))
		}

		s.logger.Log(c, ownerUID, mylog.SeverityInfo, "Replace basket of owner %s with %d items", RedactOwner(ownerUID), len(request.Items))

		stored, found, err := s.basketStore.Put(c, ownerUID, newBasket(ownerUID, request, s.nower.Now()))
		if err != nil {
			return err
		}
		if !found {
			s.instr.countError(c, updateBasketEndpoint)
			return myerrors.NewNotFoundError(fmt.Errorf("basket does not exist for owner %s", ownerUID))
		}

		err = s.publisher.Publish(c, basketevents.TopicName, basketevents.BasketReplaced{
			OwnerUID:     ownerUID,
			ProductCount: len(stored.Lines),
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing basket replace: %s", err))
		}

		result = stored.toAPI()
		span.SetAttributes(attribute.Int(responseItemCountAttr, len(result.Items)))
		return nil
	})
	if err != nil {
		return basketapi.EmptyBasket(), err
	}

	return result, nil
}

func (s *service) deleteBasket(c context.Context) error {
	return s.instr.instrumented(c, deleteBasketEndpoint, func(c context.Context, span trace.Span) error {
		ownerUID := mycontext.CallerUID(c)
		span.SetAttributes(
			attribute.String(ownerAttr, RedactOwner(ownerUID)),
			attribute.String(methodAttr, deleteBasketEndpoint),
		)

		if ownerUID == "" {
			s.instr.countError(c, deleteBasketEndpoint)
			return myerrors.NewUnauthenticatedError(fmt.Errorf("basket delete requires an authenticated caller"))
		}

		s.logger.Log(c, ownerUID, mylog.SeverityInfo, "Delete basket of owner %s", RedactOwner(ownerUID))

		// Deleting an absent basket is a success: delete is idempotent
		err := s.basketStore.Delete(c, ownerUID)
		if err != nil {
			return err
		}

		err = s.publisher.Publish(c, basketevents.TopicName, basketevents.BasketDeleted{
			OwnerUID: ownerUID,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing basket delete: %s", err))
		}

		return nil
	})
}

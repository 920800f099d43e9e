package basket

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/basketservice/lib/mycontext"
	"github.com/MarcGrol/basketservice/lib/myhttp"
	"github.com/MarcGrol/basketservice/lib/mylog"
	"github.com/MarcGrol/basketservice/lib/mypublisher"
	"github.com/MarcGrol/basketservice/lib/mytime"
	"github.com/MarcGrol/basketservice/services/basketapi"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(store BasketStorer, publisher mypublisher.Publisher, nower mytime.Nower) (*webService, error) {
	logger := mylog.New("basket")

	s, err := newService(store, publisher, nower, logger)
	if err != nil {
		return nil, err
	}

	return &webService{
		logger:  logger,
		service: s,
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/basket", s.getBasketPage()).Methods("GET")
	router.HandleFunc("/api/basket", s.updateBasketPage()).Methods("PUT")
	router.HandleFunc("/api/basket", s.deleteBasketPage()).Methods("DELETE")

	return s.service.CreateTopics(c)
}

func (s *webService) getBasketPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		basket, err := s.service.getBasket(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, basket)
	}
}

func (s *webService) updateBasketPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		basketRequest, err := basketapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		basket, err := s.service.replaceBasket(c, basketRequest)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, basket)
	}
}

func (s *webService) deleteBasketPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.service.deleteBasket(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, struct{}{})
	}
}

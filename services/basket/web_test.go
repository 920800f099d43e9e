package basket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/basketservice/lib/mypublisher"
	"github.com/MarcGrol/basketservice/lib/mytime"
	"github.com/MarcGrol/basketservice/services/basket/basketevents"
	"github.com/MarcGrol/basketservice/services/basketapi"
)

const ownerEmail = "marc@example.com"

func TestGetBasket(t *testing.T) {

	t.Run("Anonymous caller gets empty basket and raises the error counter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, reader, spans := setup(t, ctrl)

		// when
		response := doRequest(t, router, http.MethodGet, "", false)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, []basketapi.BasketItem{}, parseBasket(t, response).Items)

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "GetBasket"))
		assert.Equal(t, int64(1), counterValue(t, reader, "basket_error_total", "GetBasket"))
		assert.Equal(t, uint64(1), histogramCount(t, reader, "basket_request_duration_seconds", "GetBasket"))

		span := spanByName(t, spans, "GetBasket-Logic")
		assert.Equal(t, "REDACTED", spanAttr(span, "basket.owner"))
		assert.Equal(t, "GetBasket", spanAttr(span, "basket.method"))
	})

	t.Run("Unknown owner gets empty basket without error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, reader, spans := setup(t, ctrl)

		// when
		response := doRequest(t, router, http.MethodGet, "", true)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, []basketapi.BasketItem{}, parseBasket(t, response).Items)

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "GetBasket"))
		assert.Equal(t, int64(0), counterValue(t, reader, "basket_error_total", "GetBasket"))

		span := spanByName(t, spans, "GetBasket-Logic")
		assert.Equal(t, "m***@example.com", spanAttr(span, "basket.owner"))
	})

	t.Run("Existing basket is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _, _, spans := setup(t, ctrl)

		// given
		_, _, err := storer.Put(ctx, ownerEmail, Basket{
			OwnerUID: ownerEmail,
			Lines: []BasketLine{
				{ProductID: 1, Quantity: 5},
				{ProductID: 2, Quantity: 1},
			},
		})
		assert.NoError(t, err)

		// when
		response := doRequest(t, router, http.MethodGet, "", true)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, []basketapi.BasketItem{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 1},
		}, parseBasket(t, response).Items)

		span := spanByName(t, spans, "GetBasket-Logic")
		assert.Equal(t, "2", spanAttr(span, "basket.response.item_count"))
	})

	t.Run("Store failure surfaces but telemetry still advances", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		storer := NewMockBasketStorer(ctrl)
		router, _, _, reader, _ := setupWithStore(t, ctrl, storer)

		// given
		storer.EXPECT().Get(gomock.Any(), ownerEmail).Return(Basket{}, false, fmt.Errorf("datastore is down"))

		// when
		response := doRequest(t, router, http.MethodGet, "", true)

		// then
		assert.Equal(t, 500, response.Code)
		assert.Contains(t, response.Body.String(), "datastore is down")

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "GetBasket"))
		assert.Equal(t, uint64(1), histogramCount(t, reader, "basket_request_duration_seconds", "GetBasket"))
	})
}

func TestUpdateBasket(t *testing.T) {

	t.Run("Replace returns the stored items and is idempotent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, nower, publisher, reader, spans := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		publisher.EXPECT().Publish(gomock.Any(), basketevents.TopicName, basketevents.BasketReplaced{
			OwnerUID:     ownerEmail,
			ProductCount: 2,
		}).Return(nil).Times(2)

		body := `{"items":[{"productId":1,"quantity":5},{"productId":2,"quantity":1}]}`
		wantItems := []basketapi.BasketItem{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 1},
		}

		// when
		response := doRequest(t, router, http.MethodPut, body, true)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, wantItems, parseBasket(t, response).Items)

		// when: replaying the identical update
		response = doRequest(t, router, http.MethodPut, body, true)

		// then: same outcome
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, wantItems, parseBasket(t, response).Items)

		assert.Equal(t, int64(2), counterValue(t, reader, "basket_request_total", "UpdateBasket"))
		assert.Equal(t, uint64(2), histogramCount(t, reader, "basket_request_duration_seconds", "UpdateBasket"))

		span := spanByName(t, spans, "UpdateBasket-Logic")
		assert.Equal(t, "m***@example.com", spanAttr(span, "basket.owner"))
		assert.Equal(t, "2", spanAttr(span, "basket.request.item_count"))
		assert.Equal(t, "2", spanAttr(span, "basket.response.item_count"))
	})

	t.Run("Anonymous caller is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, reader, _ := setup(t, ctrl)

		// when
		response := doRequest(t, router, http.MethodPut, `{"items":[{"productId":1,"quantity":5}]}`, false)

		// then
		assert.Equal(t, 401, response.Code)

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "UpdateBasket"))
		assert.Equal(t, int64(1), counterValue(t, reader, "basket_error_total", "UpdateBasket"))
		assert.Equal(t, uint64(1), histogramCount(t, reader, "basket_request_duration_seconds", "UpdateBasket"))
	})

	t.Run("Invalid input is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(t, router, http.MethodPut, `{"items":[{"productId":1,"quantity":0}]}`, true)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Owner without basket gets not-found naming that owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		storer := NewMockBasketStorer(ctrl)
		router, nower, _, reader, _ := setupWithStore(t, ctrl, storer)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		storer.EXPECT().Put(gomock.Any(), ownerEmail, gomock.Any()).Return(Basket{}, false, nil)

		// when
		response := doRequest(t, router, http.MethodPut, `{"items":[{"productId":1,"quantity":5}]}`, true)

		// then
		assert.Equal(t, 404, response.Code)
		assert.Contains(t, response.Body.String(), ownerEmail)

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "UpdateBasket"))
		assert.Equal(t, int64(1), counterValue(t, reader, "basket_error_total", "UpdateBasket"))
	})

	t.Run("Store failure surfaces but telemetry still advances", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		storer := NewMockBasketStorer(ctrl)
		router, nower, _, reader, _ := setupWithStore(t, ctrl, storer)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		storer.EXPECT().Put(gomock.Any(), ownerEmail, gomock.Any()).Return(Basket{}, false, fmt.Errorf("datastore is down"))

		// when
		response := doRequest(t, router, http.MethodPut, `{"items":[{"productId":1,"quantity":5}]}`, true)

		// then
		assert.Equal(t, 500, response.Code)

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "UpdateBasket"))
		assert.Equal(t, uint64(1), histogramCount(t, reader, "basket_request_duration_seconds", "UpdateBasket"))
	})
}

func TestDeleteBasket(t *testing.T) {

	t.Run("Delete then get yields empty basket", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, publisher, reader, _ := setup(t, ctrl)

		// given
		_, _, err := storer.Put(ctx, ownerEmail, Basket{
			OwnerUID: ownerEmail,
			Lines:    []BasketLine{{ProductID: 1, Quantity: 5}},
		})
		assert.NoError(t, err)
		publisher.EXPECT().Publish(gomock.Any(), basketevents.TopicName, basketevents.BasketDeleted{
			OwnerUID: ownerEmail,
		}).Return(nil)

		// when
		response := doRequest(t, router, http.MethodDelete, "", true)

		// then
		assert.Equal(t, 200, response.Code)

		// when
		response = doRequest(t, router, http.MethodGet, "", true)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, []basketapi.BasketItem{}, parseBasket(t, response).Items)

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "DeleteBasket"))
		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "GetBasket"))
	})

	t.Run("Delete of absent basket succeeds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, publisher, _, _ := setup(t, ctrl)

		// given
		publisher.EXPECT().Publish(gomock.Any(), basketevents.TopicName, basketevents.BasketDeleted{
			OwnerUID: ownerEmail,
		}).Return(nil)

		// when
		response := doRequest(t, router, http.MethodDelete, "", true)

		// then
		assert.Equal(t, 200, response.Code)
	})

	t.Run("Anonymous caller is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, reader, _ := setup(t, ctrl)

		// when
		response := doRequest(t, router, http.MethodDelete, "", false)

		// then
		assert.Equal(t, 401, response.Code)

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_error_total", "DeleteBasket"))
		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "DeleteBasket"))
	})

	t.Run("Store failure surfaces but telemetry still advances", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		storer := NewMockBasketStorer(ctrl)
		router, _, _, reader, _ := setupWithStore(t, ctrl, storer)

		// given
		storer.EXPECT().Delete(gomock.Any(), ownerEmail).Return(fmt.Errorf("datastore is down"))

		// when
		response := doRequest(t, router, http.MethodDelete, "", true)

		// then
		assert.Equal(t, 500, response.Code)

		assert.Equal(t, int64(1), counterValue(t, reader, "basket_request_total", "DeleteBasket"))
		assert.Equal(t, uint64(1), histogramCount(t, reader, "basket_request_duration_seconds", "DeleteBasket"))
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, BasketStorer, *mytime.MockNower, *mypublisher.MockPublisher, *sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	c := context.TODO()

	storer, _, err := NewBasketStore(c)
	assert.NoError(t, err)

	router, nower, publisher, reader, spans := setupWithStore(t, ctrl, storer)

	return c, router, storer, nower, publisher, reader, spans
}

func setupWithStore(t *testing.T, ctrl *gomock.Controller, storer BasketStorer) (*mux.Router, *mytime.MockNower, *mypublisher.MockPublisher, *sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	c := context.TODO()

	// Fresh in-memory telemetry backends so each test counts from zero
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	spans := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)))

	nower := mytime.NewMockNower(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut, err := NewWebService(storer, publisher, nower)
	assert.NoError(t, err)

	router := mux.NewRouter()

	// This one is called by the following call to RegisterEndpoints()
	publisher.EXPECT().CreateTopic(c, basketevents.TopicName).Return(nil)

	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return router, nower, publisher, reader, spans
}

func doRequest(t *testing.T, router *mux.Router, method string, body string, authenticated bool) *httptest.ResponseRecorder {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	request, err := http.NewRequest(method, "/api/basket", bodyReader)
	assert.NoError(t, err)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		request.Header.Set("X-Goog-Authenticated-User-Email", "accounts.google.com:"+ownerEmail)
	}

	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	return response
}

func parseBasket(t *testing.T, response *httptest.ResponseRecorder) basketapi.Basket {
	basket := basketapi.Basket{}
	err := json.Unmarshal(response.Body.Bytes(), &basket)
	assert.NoError(t, err)
	return basket
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string, endpoint string) int64 {
	for _, m := range collectMetrics(t, reader) {
		if m.Name != name {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		if !ok {
			continue
		}
		for _, dp := range sum.DataPoints {
			if v, ok := dp.Attributes.Value(attribute.Key("endpoint")); ok && v.AsString() == endpoint {
				return dp.Value
			}
		}
	}
	return 0
}

func histogramCount(t *testing.T, reader *sdkmetric.ManualReader, name string, endpoint string) uint64 {
	for _, m := range collectMetrics(t, reader) {
		if m.Name != name {
			continue
		}
		hist, ok := m.Data.(metricdata.Histogram[float64])
		if !ok {
			continue
		}
		for _, dp := range hist.DataPoints {
			if v, ok := dp.Attributes.Value(attribute.Key("endpoint")); ok && v.AsString() == endpoint {
				return dp.Count
			}
		}
	}
	return 0
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) []metricdata.Metrics {
	var resourceMetrics metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &resourceMetrics)
	assert.NoError(t, err)

	metrics := []metricdata.Metrics{}
	for _, scope := range resourceMetrics.ScopeMetrics {
		metrics = append(metrics, scope.Metrics...)
	}
	return metrics
}

func spanByName(t *testing.T, spans *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	for _, span := range spans.Ended() {
		if span.Name() == name {
			return span
		}
	}
	t.Fatalf("no span named %s was recorded", name)
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) string {
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.Emit()
		}
	}
	return ""
}

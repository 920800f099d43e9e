package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/basketservice/lib/mypublisher"
	"github.com/MarcGrol/basketservice/lib/mypubsub"
	"github.com/MarcGrol/basketservice/lib/myqueue"
	"github.com/MarcGrol/basketservice/lib/mytelemetry"
	"github.com/MarcGrol/basketservice/lib/mytime"
	"github.com/MarcGrol/basketservice/lib/myuuid"
	"github.com/MarcGrol/basketservice/services/basket"
)

func main() {
	c := context.Background()

	telemetryCleanup, err := mytelemetry.Init(c, "basketservice")
	if err != nil {
		log.Fatalf("Error initializing telemetry: %s", err)
	}
	defer telemetryCleanup()

	router := mux.NewRouter()

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower, uuider)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	basketStore, storeCleanup, err := basket.NewBasketStore(c)
	if err != nil {
		log.Fatalf("Error creating basket store: %s", err)
	}
	defer storeCleanup()

	basketService, err := basket.NewWebService(basketStore, publisher, nower)
	if err != nil {
		log.Fatalf("Error creating basket service: %s", err)
	}
	err = basketService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering basket service: %s", err)
	}

	// Used by the orchestrator for liveness checks
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	startWebServerBlocking(router)
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}

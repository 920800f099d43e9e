package mypubsub

import (
	"context"
	"log"
	"os"
)

// inMemoryPubSub only logs: when running locally nothing is listening.
type inMemoryPubSub struct{}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newInMemoryPubSub
	}
}

func newInMemoryPubSub(c context.Context) (PubSub, func(), error) {
	return &inMemoryPubSub{}, func() {}, nil
}

func (ps *inMemoryPubSub) CreateTopic(c context.Context, topic string) error {
	log.Printf("Would have created topic %s", topic)
	return nil
}

func (ps *inMemoryPubSub) Publish(c context.Context, topic string, data string) error {
	log.Printf("Would have published on topic %s: %s", topic, data)
	return nil
}

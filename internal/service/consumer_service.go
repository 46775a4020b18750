package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/repository/specification"
	"bookshelf-ai-be/internal/repository/unitofwork"
	"bookshelf-ai-be/pkg/embedding"
	"bookshelf-ai-be/pkg/events"
	pktNats "bookshelf-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedBookMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embedding for BookId: %s", payload.BookId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: payload.BookId})
	if err != nil {
		log.Printf("[ERROR] Failed to get book %s: %v", payload.BookId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if book == nil {
		log.Printf("[ERROR] Book not found: %s", payload.BookId)
		msg.Ack() // Book deleted? Ack.
		return
	}

	if book.HasEmbedding() && !payload.Force {
		log.Printf("[INFO] Book %s already embedded, skipping", payload.BookId)
		msg.Ack()
		return
	}

	document := buildEmbeddingDocument(book)
	log.Printf("[INFO] Generating embedding for book %s (document length: %d)", payload.BookId, len(document))

	vector, err := cs.embeddingProvider.Generate(ctx, document)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for book %s: %v", payload.BookId, err)
		msg.Nack()
		return
	}

	now := time.Now()
	book.Embedding = vector
	book.UpdatedAt = &now

	if err := uow.BookRepository().Update(ctx, book); err != nil {
		log.Printf("[ERROR] Failed to store embedding for book %s: %v", payload.BookId, err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "BOOK_EMBEDDED",
			Data: map[string]interface{}{
				"book_id": book.Id,
				"title":   book.Title,
			},
			OccurredAt: now,
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish BOOK_EMBEDDED event: %v", err)
		}
	}

	log.Printf("[SUCCESS] Book embedded: %s (%d dimensions)", payload.BookId, len(vector))
	msg.Ack()
}

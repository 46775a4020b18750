package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bookshelf-ai-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbeddingProvider struct {
	vector []float32
	calls  int
}

func (p *fakeEmbeddingProvider) Generate(context.Context, string) ([]float32, error) {
	p.calls++
	return p.vector, nil
}

func publishEmbedMessage(t *testing.T, pubSub *gochannel.GoChannel, topic string, payload dto.PublishEmbedBookMessage) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), data)))
}

func TestConsumeEmbedsQueuedBook(t *testing.T) {
	book := seedBook("Dune", "Frank Herbert", "science fiction", "en", 1965, nil)
	repo := newFakeBookRepository(book)
	factory := &fakeUowFactory{repo: repo}
	provider := &fakeEmbeddingProvider{vector: []float32{0.6, 0.8}}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	svc := NewConsumerService(pubSub, "EMBED_BOOK", factory, provider, nil)
	require.NoError(t, svc.Consume(context.Background()))

	publishEmbedMessage(t, pubSub, "EMBED_BOOK", dto.PublishEmbedBookMessage{BookId: book.Id})

	assert.Eventually(t, func() bool {
		stored, err := repo.FindOne(context.Background())
		return err == nil && stored != nil && stored.HasEmbedding()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, provider.calls)
}

func TestConsumeSkipsAlreadyEmbeddedWithoutForce(t *testing.T) {
	book := seedBook("Dune", "Frank Herbert", "science fiction", "en", 1965, []float32{0.1, 0.2})
	repo := newFakeBookRepository(book)
	factory := &fakeUowFactory{repo: repo}
	provider := &fakeEmbeddingProvider{vector: []float32{0.6, 0.8}}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	svc := NewConsumerService(pubSub, "EMBED_BOOK", factory, provider, nil)
	require.NoError(t, svc.Consume(context.Background()))

	publishEmbedMessage(t, pubSub, "EMBED_BOOK", dto.PublishEmbedBookMessage{BookId: book.Id})
	// Force re-embeds even when a vector exists.
	publishEmbedMessage(t, pubSub, "EMBED_BOOK", dto.PublishEmbedBookMessage{BookId: book.Id, Force: true})

	assert.Eventually(t, func() bool {
		stored, err := repo.FindOne(context.Background())
		return err == nil && stored != nil && len(stored.Embedding) == 2 && stored.Embedding[0] == 0.6
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, provider.calls)
}

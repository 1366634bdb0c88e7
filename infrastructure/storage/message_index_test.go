package storage

import (
	"context"
	"team-chat/domain"
	"team-chat/domain/search"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func TestMessageIndex_SearchIsChannelScoped(t *testing.T) {
	req := require.New(t)
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)
	defer func() { _ = writer.Close() }()
	index := NewMessageIndex(writer)
	at := time.Now().UTC().Truncate(time.Second)

	m1 := domain.Message{ID: "m1", ChannelID: "C1", SenderID: "U1", Content: "deploy the release tonight", CreatedAt: at}
	m2 := domain.Message{ID: "m2", ChannelID: "C2", SenderID: "U2", Content: "release notes are ready", CreatedAt: at}
	m3 := domain.Message{ID: "m3", ChannelID: "C1", SenderID: "U2", Content: "lunch anyone?", CreatedAt: at}
	for _, m := range []domain.Message{m1, m2, m3} {
		req.NoError(index.Index(m))
	}

	// When searching C1
	hits, err := index.Search(context.Background(), "C1", search.Parse("release"))
	req.NoError(err)

	// Then only the C1 message matches
	req.Len(hits, 1)
	req.Equal("m1", hits[0].MessageID)
	req.Equal("U1", hits[0].SenderID)
	req.Equal(m1.Content, hits[0].Content)
	req.True(at.Equal(hits[0].CreatedAt))

	// When the message is removed it is not found anymore
	req.NoError(index.Remove("m1"))
	hits, err = index.Search(context.Background(), "C1", search.Parse("release"))
	req.NoError(err)
	req.Empty(hits)
}

func TestMessageIndex_SenderFilter(t *testing.T) {
	req := require.New(t)
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)
	defer func() { _ = writer.Close() }()
	index := NewMessageIndex(writer)
	at := time.Now().UTC()

	// Given two authors talking about the release in C1
	req.NoError(index.Index(domain.Message{ID: "m1", ChannelID: "C1", SenderID: "U1", Content: "release is green", CreatedAt: at}))
	req.NoError(index.Index(domain.Message{ID: "m2", ChannelID: "C1", SenderID: "U2", Content: "release is late", CreatedAt: at}))
	req.NoError(index.Index(domain.Message{ID: "m3", ChannelID: "C1", SenderID: "U2", Content: "coffee", CreatedAt: at}))

	// When filtering on U2
	hits, err := index.Search(context.Background(), "C1", search.Parse("release --from U2"))
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("m2", hits[0].MessageID)

	// When only the author is given every message of U2 matches
	hits, err = index.Search(context.Background(), "C1", search.Parse("--from U2 --limit 1"))
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("U2", hits[0].SenderID)
}

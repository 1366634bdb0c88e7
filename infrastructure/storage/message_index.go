package storage

import (
	"context"
	"team-chat/domain"
	"team-chat/domain/search"
	"time"

	"github.com/blugelabs/bluge"
)

type IMessageIndex interface {
	Index(message domain.Message) error
	Remove(id string) error
	Search(ctx context.Context, channelID string, query search.Query) ([]SearchHit, error)
}

type SearchHit struct {
	MessageID string    `json:"messageId"`
	ChannelID string    `json:"channelId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Score     float64   `json:"score"`
}

// MessageIndex keeps a full text index of channel messages next to badger.
// Badger stays the source of truth, the index only answers searches.
type MessageIndex struct {
	writer *bluge.Writer
}

func NewMessageIndex(writer *bluge.Writer) *MessageIndex {
	return &MessageIndex{writer: writer}
}

func (i MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewKeywordField("channel_id", message.ChannelID).StoreValue()).
		AddField(bluge.NewKeywordField("sender_id", message.SenderID).StoreValue()).
		AddField(bluge.NewDateTimeField("created_at", message.CreatedAt).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

func (i MessageIndex) Remove(id string) error {
	return i.writer.Delete(bluge.Identifier(id))
}

// Search matches inside one channel only. Access to the channel is checked by the caller.
func (i MessageIndex) Search(ctx context.Context, channelID string, q search.Query) ([]SearchHit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(channelID).SetField("channel_id"))
	if q.Terms != "" {
		query.AddMust(bluge.NewMatchQuery(q.Terms).SetField("content"))
	}
	if q.SenderID != "" {
		query.AddMust(bluge.NewTermQuery(q.SenderID).SetField("sender_id"))
	}
	dmi, err := reader.Search(ctx, bluge.NewTopNSearch(q.Limit, query))
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	match, err := dmi.Next()
	for err == nil && match != nil {
		hit := SearchHit{Score: match.Score}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "content":
				hit.Content = string(value)
			case "channel_id":
				hit.ChannelID = string(value)
			case "sender_id":
				hit.SenderID = string(value)
			case "created_at":
				if at, decodeErr := bluge.DecodeDateTime(value); decodeErr == nil {
					hit.CreatedAt = at.UTC()
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = dmi.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}

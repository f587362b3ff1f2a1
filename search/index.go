package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"

	"github.com/adrian-25/talk-glide/domain"
)

// Hit is one search result, newest first.
type Hit struct {
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	Sender         string
	Content        string
	At             time.Time
}

// Index wraps a Bluge writer fed by the feed reload path. Indexing the same
// message twice is harmless: documents are keyed by message id and updated
// in place.
type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// Open creates the index at path, or an in-memory one when path is empty.
func Open(path string, log *slog.Logger) (*Index, error) {
	cfg := bluge.InMemoryOnlyConfig()
	if path != "" {
		cfg = bluge.DefaultConfig(path)
	}
	writer, err := bluge.OpenWriter(cfg)
	if err != nil {
		return nil, fmt.Errorf("open bluge writer: %w", err)
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// IndexMessages upserts a batch of loaded messages.
func (i *Index) IndexMessages(messages []domain.Message) error {
	if len(messages) == 0 {
		return nil
	}

	batch := bluge.NewBatch()
	for _, msg := range messages {
		doc := bluge.NewDocument(msg.ID.String()).
			AddField(bluge.NewTextField("content", msg.Content).StoreValue()).
			AddField(bluge.NewKeywordField("conversation_id", msg.ConversationID.String()).StoreValue()).
			AddField(bluge.NewKeywordField("sender", msg.SenderLabel()).StoreValue()).
			AddField(bluge.NewStoredOnlyField("at", []byte(strconv.FormatInt(msg.CreatedAt.UnixNano(), 10))))
		batch.Update(doc.ID(), doc)
	}
	if err := i.writer.Batch(batch); err != nil {
		return fmt.Errorf("index batch: %w", err)
	}
	return nil
}

// Search runs the query and returns matching hits, newest first.
func (i *Index) Search(ctx context.Context, query Query) ([]Hit, error) {
	if query.Terms == "" {
		return nil, nil
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	match := bluge.NewMatchQuery(query.Terms).SetField("content")
	var blugeQuery bluge.Query = match
	if query.ConversationID != uuid.Nil {
		blugeQuery = bluge.NewBooleanQuery().
			AddMust(match).
			AddMust(bluge.NewTermQuery(query.ConversationID.String()).SetField("conversation_id"))
	}

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(query.Limit, blugeQuery))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var hits []Hit
	for {
		next, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}

		var hit Hit
		err = next.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID, _ = uuid.Parse(string(value))
			case "conversation_id":
				hit.ConversationID, _ = uuid.Parse(string(value))
			case "sender":
				hit.Sender = string(value)
			case "content":
				hit.Content = string(value)
			case "at":
				if nanos, err := strconv.ParseInt(string(value), 10, 64); err == nil {
					hit.At = time.Unix(0, nanos).UTC()
				}
			}
			return true
		})
		if err != nil {
			i.log.Debug("stored fields unreadable, hit skipped", "error", err)
			continue
		}
		hits = append(hits, hit)
	}

	sort.Slice(hits, func(a, b int) bool { return hits[a].At.After(hits[b].At) })
	return hits, nil
}

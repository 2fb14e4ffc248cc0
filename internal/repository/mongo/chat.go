package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openchat-labs/chat-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository implements domain.ChatRepository. Every filter includes
// the owner id, so cross-user access fails at the query boundary rather
// than in application checks.
type ChatRepository struct {
	coll *mongo.Collection
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{coll: db.Collection(chatsCollection)}
}

func ownerFilter(id, owner primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "userId": owner}
}

func (r *ChatRepository) Insert(ctx context.Context, chat *domain.Chat) error {
	if chat.Messages == nil {
		chat.Messages = []domain.Message{}
	}
	if _, err := r.coll.InsertOne(ctx, chat); err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}
	return nil
}

func (r *ChatRepository) GetByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*domain.Chat, error) {
	var c domain.Chat
	err := r.coll.FindOne(ctx, ownerFilter(id, owner)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &c, nil
}

func (r *ChatRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID, limit int64) ([]domain.Chat, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer cursor.Close(ctx)

	var chats []domain.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chats: %w", err)
	}
	return chats, nil
}

// AppendMessages pushes new turns onto the message array in a single
// filtered update. Concurrent sends against the same chat interleave
// their appends instead of overwriting each other's history.
func (r *ChatRepository) AppendMessages(ctx context.Context, id, owner primitive.ObjectID, messages []domain.Message) error {
	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, ownerFilter(id, owner), update)
	if err != nil {
		return fmt.Errorf("failed to append messages: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ChatRepository) Rename(ctx context.Context, id, owner primitive.ObjectID, title string) (*domain.Chat, error) {
	update := bson.M{"$set": bson.M{"title": title, "updatedAt": time.Now()}}
	return r.findOneAndUpdate(ctx, id, owner, update)
}

func (r *ChatRepository) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, ownerFilter(id, owner))
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearMessages empties the message array but keeps the chat document.
func (r *ChatRepository) ClearMessages(ctx context.Context, id, owner primitive.ObjectID) (*domain.Chat, error) {
	update := bson.M{"$set": bson.M{"messages": []domain.Message{}, "updatedAt": time.Now()}}
	return r.findOneAndUpdate(ctx, id, owner, update)
}

func (r *ChatRepository) findOneAndUpdate(ctx context.Context, id, owner primitive.ObjectID, update bson.M) (*domain.Chat, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c domain.Chat
	err := r.coll.FindOneAndUpdate(ctx, ownerFilter(id, owner), update, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update chat: %w", err)
	}
	return &c, nil
}

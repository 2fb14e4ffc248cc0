package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message roles. A conversation is an alternating sequence of these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultChatTitle is the title of a chat before one is synthesized from
// its first message or set explicitly.
const DefaultChatTitle = "New Chat"

// MaxMessageLength is the upper bound on a single message's content.
const MaxMessageLength = 10000

// MaxTitleLength is the upper bound on a chat title.
const MaxTitleLength = 100

// Message is a single turn in a conversation. Content is append-only:
// once a message is part of a chat it is never edited, only followed.
type Message struct {
	Role      string    `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Chat is an owned, titled, ordered sequence of messages. Every read and
// write is filtered by (ID, UserID) at the persistence layer so a chat is
// never reachable from another account.
type Chat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Messages  []Message          `bson:"messages" json:"messages"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ChatSummary is the listing projection of a chat: metadata plus a short
// preview of the most recent message, without the full message history.
type ChatSummary struct {
	ID           primitive.ObjectID `json:"_id"`
	Title        string             `json:"title"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	MessageCount int                `json:"messageCount"`
	LastMessage  *string            `json:"lastMessage"`
}

// ChatRepository defines owner-scoped chat persistence. Mutating
// operations return ErrNotFound when no chat matches (id, owner).
type ChatRepository interface {
	Insert(ctx context.Context, chat *Chat) error
	GetByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*Chat, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID, limit int64) ([]Chat, error)
	AppendMessages(ctx context.Context, id, owner primitive.ObjectID, messages []Message) error
	Rename(ctx context.Context, id, owner primitive.ObjectID, title string) (*Chat, error)
	Delete(ctx context.Context, id, owner primitive.ObjectID) error
	ClearMessages(ctx context.Context, id, owner primitive.ObjectID) (*Chat, error)
}

// UserRepository defines user persistence. Lookups return (nil, nil)
// on a miss; Create returns ErrDuplicate when a unique index (email,
// username or googleId) is violated.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
}

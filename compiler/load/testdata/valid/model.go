package valid

import (
	"time"

	"github.com/google/uuid"
)

// Timestamps is embedded by entities that track their creation time.
type Timestamps interface {
	GetCreatedAt() time.Time
	SetCreatedAt(time.Time)
}

// User is a blog author.
//
//simpleorm:entity table=users added=1
type User interface {
	//simpleorm:id
	GetID() int64
	SetID(int64)

	GetName() string
	SetName(string)

	IsActive() bool
	SetActive(bool)

	GetPosts() []Post
	SetPosts([]Post)

	Timestamps
}

// Post is written by a user.
//
//simpleorm:entity
type Post interface {
	//simpleorm:id
	GetID() int64
	SetID(int64)

	GetAuthor() User
	SetAuthor(User)

	GetTags() []string
	SetTags([]string)

	GetToken() uuid.UUID
	SetToken(uuid.UUID)

	GetBody() []byte
	SetBody([]byte)
}

// Blog groups the blog entities.
//
//simpleorm:database name=blog version=2 entities=User,Post
type Blog interface{}

// Plain is not an entity.
type Plain interface {
	GetName() string
}

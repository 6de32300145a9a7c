package model

import (
	"time"

	"github.com/google/uuid"
)

// Author is named by its singular table.
//
//simpleorm:entity table=author
type Author interface {
	//simpleorm:id
	GetID() int64
	SetID(int64)

	GetName() string
	SetName(string)

	GetScore() float64
	SetScore(float64)

	GetJoined() time.Time
	SetJoined(time.Time)

	GetPosts() []Post
	SetPosts([]Post)
}

//simpleorm:entity
type Post interface {
	//simpleorm:id
	GetID() int64
	SetID(int64)

	GetAuthor() Author
	SetAuthor(Author)

	GetTags() []string
	SetTags([]string)

	GetWeights() []float64
	SetWeights([]float64)

	GetToken() uuid.UUID
	SetToken(uuid.UUID)

	GetBody() []byte
	SetBody([]byte)

	IsDraft() bool
	SetDraft(bool)
}

//simpleorm:database name=blog entities=Author,Post
type Blog interface{}

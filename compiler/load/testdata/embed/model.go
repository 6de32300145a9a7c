package embed

import "io"

//simpleorm:entity
type User interface {
	io.Reader
	GetName() string
}

package buildflags

//simpleorm:entity
type User interface {
	GetName() string
	SetName(string)
}

package failure

//simpleorm:entity
type User interface {
	GetName() Missing
}

//go:build withgroups

package buildflags

//simpleorm:entity
type Group interface {
	GetName() string
	SetName(string)
}

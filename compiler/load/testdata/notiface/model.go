package notiface

//simpleorm:entity
type User struct {
	Name string
}

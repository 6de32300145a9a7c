// Package schema holds the metadata vocabulary attached to entity
// declarations.
//
// Entities are plain Go interfaces made of accessor pairs and marked with
// comment directives:
//
//	//simpleorm:entity table=users added=1
//	type User interface {
//	    //simpleorm:id
//	    GetID() int64
//	    SetID(int64)
//
//	    GetName() string
//	    SetName(string)
//
//	    IsActive() bool
//	    SetActive(bool)
//	}
//
// Collections group entities into a database:
//
//	//simpleorm:database name=app version=2 entities=User,Post
//	type App interface{}
//
// For the storage kinds, see the [field] package.
package schema

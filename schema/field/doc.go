// Package field defines the storage vocabulary shared by the generator and
// the code it generates.
//
// Every column of an entity resolves to one storage Kind and one Shape:
//
//	GetName() string        // TEXT, Scalar
//	GetTags() []string      // BLOB, List (encoded by the "list" adapter)
//	GetPosts() []model.Post // ENTITY, List
//
// The Kind enumeration is fixed. Custom Go types map onto it through type
// adapters registered with the generator.
package field

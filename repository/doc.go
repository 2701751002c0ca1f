// Package repository builds data-access objects from declarations.
//
// A declaration is a struct embedding Repository[T, ID] whose exported
// function fields describe the operations:
//
//	type Users struct {
//		repository.Repository[User, string]
//
//		FindByName func(ctx context.Context, name string) (types.Optional[User], error) `query:"SELECT * FROM user WHERE name = ?1"`
//		Adults     func(ctx context.Context, age int) ([]User, error)                     `query:"SELECT * FROM user WHERE age >= ?1"`
//		All        func(ctx context.Context) ([]*User, error)
//	}
//
//	func init() { repository.Register[Users]() }
//
// Build (or New) fills every function field. Tagged fields render their
// template with query.Render, execute it through a database.Driver and fold
// the rows into the declared result: *E, types.Optional[E] or a slice. Untagged
// fields are forwarded to the generic CRUD implementation.
package repository

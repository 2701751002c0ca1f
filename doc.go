// Package stratum wires declarative repositories to a database driver.
//
// Repository declarations register themselves from init functions with
// repository.Register. Initialize discovers every declaration under a package
// scope, builds one instance per declaration and keeps them in a Container
// keyed by the declaration's type name:
//
//	drv, err := database.InitDriver(ctx, cfg)
//	...
//	c, err := stratum.Initialize(ctx, drv, stratum.WithScope("example.com/app"))
//	users, ok := stratum.Lookup[store.Users](c)
//
// FXModule offers the same as a go.uber.org/fx module, providing the Container
// and every repository, the latter also under its name (`name:"Users"`).
package stratum

// Package blockx builds serialization blocklists: modules that make an
// encoder refuse to serialize values of selected types.
//
// A blocklist is described by three kinds of rules, any of which may be
// empty:
//
//   - Classes: explicit types
//   - Packages: import-path prefixes, matched on whole path segments, so
//     "example.com/app" covers "example.com/app/internal" but not
//     "example.com/application"
//   - Markers: types that, when embedded in a struct or implemented by a
//     type, mark it as disallowed
//
// # Quick Start
//
// Register the types of your packages with the generator:
//
//	//go:generate go run github.com/hengadev/blockx/cmd/blockx-gen generate
//
// Build a module and install it into an encoder:
//
//	b, err := blockx.NewBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mod, err := b.
//	    Classes(blockx.TypeOf[Credentials]()).
//	    Packages("example.com/app/internal/secrets").
//	    Markers(blockx.TypeOf[blockx.Disallowed]()).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mapper, _ := serializer.NewMapper()
//	if err := mapper.RegisterModule(mod); err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = mapper.Marshal(Credentials{})
//	// err: attempted to serialize disallowed type Credentials
//	blockx.IsDenied(err) // true
//
// # Type Universe
//
// Package and marker rules are resolved against the type universe, the set
// of types registered with package universe. Go cannot enumerate the types of
// a program at run time, so registrations come from generated init functions
// (see cmd/blockx-gen) or explicit universe.Register calls. Candidates that
// fail to load are skipped; a universe that cannot be read at all makes
// NewBuilder fail with ErrUniverseUnavailable.
//
// # Enforcement
//
// A built Module holds one Hook per blocked type. Hooks are registered for
// exact types: a pointer to a blocked type is dereferenced by the encoder
// before the lookup, so it is rejected too, while a type that merely contains
// a blocked type as a field is only rejected when that field is actually
// encoded. Any denial fails the whole encode call; no partial output is
// produced.
//
// # Configuration
//
// Rules can also be given by name, for example from the environment:
//
//	cfg, err := blockx.LoadConfigFromEnvironment()
//	b, err := blockx.BuilderFromConfig(cfg, blockx.WithLogger(logger))
//
// Unknown names are reported together in a single ErrInvalidConfiguration.
//
// # Error Handling
//
//	if blockx.IsDenied(err) {
//	    // a blocked type reached the encoder
//	}
//	if blockx.IsConfigurationError(err) {
//	    // the builder could not be created or configured
//	}
package blockx

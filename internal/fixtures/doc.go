// Package fixtures holds small packages with registered type universes, used
// by tests to exercise package, class and marker rules against real import
// paths.
package fixtures

// Package objects contains the domain value objects shared by storage, biz
// and the HTTP layer. They carry no behavior beyond small derived values, so
// every layer can depend on them without cycles.
package objects

// Package ports declares the collaborator interfaces consumed by the
// navigation engine. The engine depends only on these contracts; concrete
// implementations live in pkg/adapters or in the embedding application.
package ports

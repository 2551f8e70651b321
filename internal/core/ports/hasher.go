package ports

// Hasher defines the interface for fingerprinting file contents.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// HashFile fingerprints the content and permission bits of the file at path.
	HashFile(path string) (uint64, error)
}

package model

// Identity is the authenticated principal as minted by the external identity
// provider. The backend never writes identities; it only reads the verified
// token claims.
type Identity struct {
	ID         string // stable subject identifier (UUID)
	Email      string
	SuperAdmin bool // administrative flag carried in identity metadata
}

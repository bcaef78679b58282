package models

// Person is the stored record. Persons are append-only: once created they are
// never updated or deleted. The denormalized search text lives only in the
// database and is not part of this representation.
type Person struct {
	ID        string   `json:"id"`
	Nickname  string   `json:"nickname"`
	Name      string   `json:"name"`
	BirthDate string   `json:"birthdate"`
	Stack     []string `json:"stack"`
}

// CreatePersonRequest is the POST /persons payload. The id is always
// generated server-side and never accepted from clients.
type CreatePersonRequest struct {
	Nickname  string   `json:"nickname"`
	Name      string   `json:"name"`
	BirthDate string   `json:"birthdate"`
	Stack     []string `json:"stack"`
}

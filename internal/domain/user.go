package domain

// User is the slice of the account entity the order lifecycle needs for
// addressing notifications. Account management and authentication live in a
// separate service.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

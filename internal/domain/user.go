package domain

type User struct {
	ID           int64
	FirstName    string
	MiddleName   *string
	LastName     string
	Phone        string
	Email        string
	PasswordHash string
	Address      *string
}

package auth

type DBUser interface {
	ID() int
	Name() string
	Has(perm Permission) bool
}

type UserDB interface {
	CountUsers() (int, error)
	GetAllUsers(limit, offset int) ([]DBUser, error)
	GetUser(id int) (DBUser, error)
	GetUserByName(name string) (DBUser, error)
	InsertUser(name, password string, perms ...Permission) (DBUser, error)
	LoginUser(name, password string) (DBUser, error)
	SetPassword(u DBUser, password string) error
	SetPermissions(u DBUser, leader, author bool) error
}

type User = DBUser

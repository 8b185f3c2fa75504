package auth

type userRepository struct {
	users map[ID]*User
}

func NewUserRepository() Repository {
	return &userRepository{users: map[ID]*User{}}
}

func (repo *userRepository) FindByID(id ID) (*User, error) {
	if u, ok := repo.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (repo *userRepository) FindByEmail(email string) (*User, error) {
	for _, v := range repo.users {
		if v.Email == email {
			return v, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *userRepository) Store(u *User) error {
	if existing, _ := repo.FindByEmail(u.Email); existing != nil {
		return ErrExistingEmail
	}
	repo.users[u.ID] = u
	return nil
}

func (repo *userRepository) Update(u *User) error {
	existing, err := repo.FindByEmail(u.Email)
	if err != nil {
		return err
	}
	repo.users[existing.ID] = u
	return nil
}

func (repo *userRepository) Delete(id ID) error {
	delete(repo.users, id)
	return nil
}

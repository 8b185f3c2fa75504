package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepository struct {
	collection *mongo.Collection
}

type dbUser struct {
	ID        ID        `bson:"_id"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	Name      string    `bson:"name,omitempty"`
	Role      string    `bson:"role"`
	Verified  bool      `bson:"verified"`
	CreatedAt time.Time `bson:"createdAt"`
}

// NewMongoUserRepository creates a unique index on email so two concurrent
// registrations for the same address can't both insert.
func NewMongoUserRepository(c *mongo.Collection) (Repository, error) {
	_, err := c.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &mongoUserRepository{collection: c}, nil
}

func (m *mongoUserRepository) FindByEmail(email string) (*User, error) {
	return m.findUserBy("email", email)
}

func (m *mongoUserRepository) FindByID(id ID) (*User, error) {
	return m.findUserBy("_id", string(id))
}

func (m *mongoUserRepository) findUserBy(key string, val string) (*User, error) {
	var u dbUser
	sr := m.collection.FindOne(context.TODO(), bson.M{key: val})

	if sr.Err() == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}

	if err := sr.Decode(&u); err != nil {
		return nil, err
	}

	nU := userFromDBUser(u)
	return &nU, nil
}

func (m *mongoUserRepository) Store(u *User) error {
	dbu := dbUserFromUser(u)
	_, err := m.collection.InsertOne(context.TODO(), &dbu)
	if isDuplicateKeyErr(err) {
		return ErrExistingEmail
	}
	return err
}

func (m *mongoUserRepository) Update(u *User) error {
	dbu := dbUserFromUser(u)
	res, err := m.collection.ReplaceOne(context.TODO(), bson.M{"email": dbu.Email}, dbu)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoUserRepository) Delete(id ID) error {
	_, err := m.collection.DeleteOne(context.TODO(), bson.M{"_id": string(id)})
	return err
}

func isDuplicateKeyErr(err error) bool {
	we, ok := err.(mongo.WriteException)
	if !ok {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 {
			return true
		}
	}
	return false
}

func dbUserFromUser(u *User) dbUser {
	return dbUser{u.ID, u.Email, u.Password, u.Name, u.Role, u.Verified, u.CreatedAt}
}

func userFromDBUser(u dbUser) User {
	nU := User{u.ID, u.Email, u.Password, u.Name, u.Role, u.Verified, u.CreatedAt}
	return nU
}

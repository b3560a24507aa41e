package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/task-manager/internal/models"
)

type tokenDocument struct {
	Token string `bson:"token"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Age       *float64           `bson:"age,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Tokens    []tokenDocument    `bson:"tokens"`
	Avatar    []byte             `bson:"avatar,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newUserDocument(user *models.User) userDocument {
	tokens := make([]tokenDocument, len(user.Tokens))
	for i, t := range user.Tokens {
		tokens[i] = tokenDocument{Token: t}
	}
	return userDocument{
		Name:      user.Name,
		Age:       user.Age,
		Email:     user.Email,
		Password:  user.Password,
		Tokens:    tokens,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (d userDocument) model() *models.User {
	var tokens []string
	for _, t := range d.Tokens {
		tokens = append(tokens, t.Token)
	}
	return &models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Age:       d.Age,
		Email:     d.Email,
		Password:  d.Password,
		Tokens:    tokens,
		Avatar:    d.Avatar,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	Owner       primitive.ObjectID `bson:"owner"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) model() *models.Task {
	return &models.Task{
		ID:          d.ID.Hex(),
		Description: d.Description,
		Completed:   d.Completed,
		Owner:       d.Owner.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

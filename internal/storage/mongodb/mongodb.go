// Package mongodb stores users and tasks in two MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
}

var _ storage.Store = (*Store)(nil)

func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client: client,
		users:  db.Collection(usersCollection),
		tasks:  db.Collection(tasksCollection),
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tasks owner index: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	doc := newUserDocument(user)
	doc.ID = primitive.NewObjectID()

	_, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.model(), nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	set := bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"password":  user.Password,
		"updatedAt": now,
	}
	update := bson.M{"$set": set}
	if user.Age != nil {
		set["age"] = *user.Age
	} else {
		update["$unset"] = bson.M{"age": ""}
	}

	err := s.updateUser(ctx, user.ID, update)
	if err != nil {
		return err
	}
	user.UpdatedAt = now
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) AddToken(ctx context.Context, userID, token string) error {
	return s.updateUser(ctx, userID, bson.M{
		"$push": bson.M{"tokens": tokenDocument{Token: token}},
	})
}

func (s *Store) RemoveToken(ctx context.Context, userID, token string) error {
	return s.updateUser(ctx, userID, bson.M{
		"$pull": bson.M{"tokens": bson.M{"token": token}},
	})
}

func (s *Store) ClearTokens(ctx context.Context, userID string) error {
	return s.updateUser(ctx, userID, bson.M{
		"$set": bson.M{"tokens": bson.A{}},
	})
}

func (s *Store) SetAvatar(ctx context.Context, userID string, avatar []byte) error {
	if avatar == nil {
		return s.updateUser(ctx, userID, bson.M{"$unset": bson.M{"avatar": ""}})
	}
	return s.updateUser(ctx, userID, bson.M{"$set": bson.M{"avatar": avatar}})
}

func (s *Store) updateUser(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	owner, err := primitive.ObjectIDFromHex(task.Owner)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", task.Owner, err)
	}

	now := time.Now().UTC()
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Description: task.Description,
		Completed:   task.Completed,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = s.tasks.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	task.ID = doc.ID.Hex()
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

func (s *Store) GetTask(ctx context.Context, owner, id string) (*models.Task, error) {
	filter, err := taskByIDFilter(owner, id)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	err = s.tasks.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return doc.model(), nil
}

func (s *Store) ListTasks(ctx context.Context, query storage.TaskQuery) ([]*models.Task, error) {
	filter, err := taskListFilter(query)
	if err != nil {
		return []*models.Task{}, nil
	}

	cursor, err := s.tasks.Find(ctx, filter, taskListOptions(query))
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	tasks := make([]*models.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDocument
		err = cursor.Decode(&doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, doc.model())
	}

	err = cursor.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	filter, err := taskByIDFilter(task.Owner, task.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := s.tasks.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"description": task.Description,
			"completed":   task.Completed,
			"updatedAt":   now,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	task.UpdatedAt = now
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, owner, id string) (*models.Task, error) {
	filter, err := taskByIDFilter(owner, id)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	err = s.tasks.FindOneAndDelete(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return doc.model(), nil
}

func (s *Store) DeleteTasksByOwner(ctx context.Context, owner string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return 0, nil
	}

	res, err := s.tasks.DeleteMany(ctx, bson.M{"owner": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete tasks by owner: %w", err)
	}
	return res.DeletedCount, nil
}

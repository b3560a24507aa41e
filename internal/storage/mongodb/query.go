package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/task-manager/internal/storage"
)

// Task documents use the API field names, so a sortable field maps to
// itself.
var taskSortKeys = map[string]string{
	storage.TaskFieldDescription: "description",
	storage.TaskFieldCompleted:   "completed",
	storage.TaskFieldCreatedAt:   "createdAt",
	storage.TaskFieldUpdatedAt:   "updatedAt",
}

// taskByIDFilter reports storage.ErrNotFound for ids that cannot exist.
func taskByIDFilter(owner, id string) (bson.M, error) {
	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	ownerID, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return bson.M{"_id": taskID, "owner": ownerID}, nil
}

func taskListFilter(query storage.TaskQuery) (bson.M, error) {
	ownerID, err := primitive.ObjectIDFromHex(query.Owner)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	filter := bson.M{"owner": ownerID}
	if query.Completed != nil {
		filter["completed"] = *query.Completed
	}
	return filter, nil
}

func taskListOptions(query storage.TaskQuery) *options.FindOptions {
	sort := bson.D{}
	if query.Sort != nil {
		if key, ok := taskSortKeys[query.Sort.Field]; ok {
			direction := 1
			if query.Sort.Desc {
				direction = -1
			}
			sort = append(sort, bson.E{Key: key, Value: direction})
		}
	}
	// ObjectIDs grow with insertion time, which gives the default order
	// and breaks ties of the requested one.
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	opts := options.Find().SetSort(sort)
	if query.Limit > 0 {
		opts.SetLimit(query.Limit)
	}
	if query.Skip > 0 {
		opts.SetSkip(query.Skip)
	}
	return opts
}

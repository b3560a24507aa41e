package postgres

import (
	"github.com/Masterminds/squirrel"

	"github.com/adanyl0v/task-manager/internal/storage"
)

var taskSortColumns = map[string]string{
	storage.TaskFieldDescription: "description",
	storage.TaskFieldCompleted:   "completed",
	storage.TaskFieldCreatedAt:   "created_at",
	storage.TaskFieldUpdatedAt:   "updated_at",
}

// listTasksQuery builds the owner-scoped task listing. Task ids are UUIDv7,
// so ordering by id keeps insertion order and breaks ties of the requested
// sort.
func listTasksQuery(query storage.TaskQuery) (string, []any, error) {
	builder := squirrel.Select(
		"id",
		"description",
		"completed",
		"owner",
		"created_at",
		"updated_at",
	).
		From("tasks").
		Where(squirrel.Eq{"owner": query.Owner}).
		PlaceholderFormat(squirrel.Dollar)

	if query.Completed != nil {
		builder = builder.Where(squirrel.Eq{"completed": *query.Completed})
	}

	if query.Sort != nil {
		if column, ok := taskSortColumns[query.Sort.Field]; ok {
			direction := " ASC"
			if query.Sort.Desc {
				direction = " DESC"
			}
			builder = builder.OrderBy(column + direction)
		}
	}
	builder = builder.OrderBy("id ASC")

	if query.Limit > 0 {
		builder = builder.Limit(uint64(query.Limit))
	}
	if query.Skip > 0 {
		builder = builder.Offset(uint64(query.Skip))
	}
	return builder.ToSql()
}

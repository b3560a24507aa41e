package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/task-manager/internal/storage"
)

func TestListTasksQuery(t *testing.T) {
	const selectTasks = "SELECT id, description, completed, owner, created_at, updated_at FROM tasks"
	completed := true

	tests := []struct {
		name     string
		query    storage.TaskQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "owner only",
			query:    storage.TaskQuery{Owner: "u1"},
			wantSQL:  selectTasks + " WHERE owner = $1 ORDER BY id ASC",
			wantArgs: []any{"u1"},
		},
		{
			name:     "completed filter",
			query:    storage.TaskQuery{Owner: "u1", Completed: &completed},
			wantSQL:  selectTasks + " WHERE owner = $1 AND completed = $2 ORDER BY id ASC",
			wantArgs: []any{"u1", true},
		},
		{
			name:     "sort limit skip",
			query:    storage.TaskQuery{Owner: "u1", Limit: 2, Skip: 4, Sort: &storage.TaskSort{Field: "createdAt", Desc: true}},
			wantSQL:  selectTasks + " WHERE owner = $1 ORDER BY created_at DESC, id ASC LIMIT 2 OFFSET 4",
			wantArgs: []any{"u1"},
		},
		{
			name:     "ascending sort",
			query:    storage.TaskQuery{Owner: "u1", Sort: &storage.TaskSort{Field: "description"}},
			wantSQL:  selectTasks + " WHERE owner = $1 ORDER BY description ASC, id ASC",
			wantArgs: []any{"u1"},
		},
		{
			name:     "unknown sort field is ignored",
			query:    storage.TaskQuery{Owner: "u1", Sort: &storage.TaskSort{Field: "owner; DROP TABLE tasks"}},
			wantSQL:  selectTasks + " WHERE owner = $1 ORDER BY id ASC",
			wantArgs: []any{"u1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := listTasksQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

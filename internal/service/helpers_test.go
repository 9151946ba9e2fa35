package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/sitecms/internal/db"
	"github.com/stretchr/testify/require"
)

var testDBSeq atomic.Int64

// newTestRepositories opens a private in-memory sqlite database.
func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	dsn := fmt.Sprintf("file:service-test-%d?mode=memory&cache=shared", testDBSeq.Add(1))
	gdb, err := db.Open(db.Options{Driver: "sqlite", Path: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return NewRepositories(gdb, nil)
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

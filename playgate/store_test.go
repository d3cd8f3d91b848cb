package playgate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	v, err := s1.Get(ctx, "spin:a@b.com:2024-09-23")
	require.NoError(t, err)
	assert.Empty(t, v)
	require.NoError(t, s1.Set(ctx, "spin:a@b.com:2024-09-23", PlayedValue))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	v, err = s2.Get(ctx, "spin:a@b.com:2024-09-23")
	require.NoError(t, err)
	assert.Equal(t, PlayedValue, v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "play_records.json"), []byte("{"), 0644))
	_, err := NewFileStore(dir)
	assert.Error(t, err)
}

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgresStore(db)
	q := regexp.QuoteMeta(`SELECT value FROM play_records WHERE key = $1`)

	mock.ExpectQuery(q).WithArgs("spin:a@b.com:2024-09-23").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("true"))
	v, err := s.Get(context.Background(), "spin:a@b.com:2024-09-23")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	mock.ExpectQuery(q).WithArgs("spin:x@b.com:2024-09-23").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	v, err = s.Get(context.Background(), "spin:x@b.com:2024-09-23")
	require.NoError(t, err)
	assert.Empty(t, v)

	mock.ExpectQuery(q).WithArgs("k").WillReturnError(errors.New("conn reset"))
	_, err = s.Get(context.Background(), "k")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgresStore(db)

	mock.ExpectExec("INSERT INTO play_records").
		WithArgs("spin:a@b.com:2024-09-23", PlayedValue).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, RecordPlayedToday(context.Background(), s, "a@b.com", day("2024-09-23")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Mock(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client)
	now := day("2024-09-23")
	key := Key("a@b.com", now)

	mock.ExpectGet(key).RedisNil()
	played, err := HasPlayedToday(ctx, s, "a@b.com", now)
	require.NoError(t, err)
	assert.False(t, played)

	// no expiration: the date in the key retires old records
	mock.ExpectSet(key, PlayedValue, 0).SetVal("OK")
	require.NoError(t, RecordPlayedToday(ctx, s, "a@b.com", now))

	mock.ExpectGet(key).SetVal(PlayedValue)
	played, err = HasPlayedToday(ctx, s, "a@b.com", now)
	require.NoError(t, err)
	assert.True(t, played)

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	_, err = HasPlayedToday(ctx, s, "a@b.com", now)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Runs only against a live Redis: REDIS_ADDR=localhost:6379 go test ./playgate
func TestRedisStore_Live(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	dbIdx, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	s, err := DialRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), dbIdx)
	require.NoError(t, err)
	defer s.Close()

	email := "redis-test@b.com"
	now := day("2001-01-01")
	played, err := HasPlayedToday(ctx, s, email, now)
	require.NoError(t, err)
	if played {
		t.Skip("key left over from an earlier run")
	}
	require.NoError(t, RecordPlayedToday(ctx, s, email, now))
	played, err = HasPlayedToday(ctx, s, email, now)
	require.NoError(t, err)
	assert.True(t, played)
	_ = s.client.Del(ctx, Key(email, now)).Err()
}

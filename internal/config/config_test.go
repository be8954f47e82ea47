package config

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"postapi/internal/core/post"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm/schema"
)

func Test_Parse(t *testing.T) {
	t.Run("Should apply defaults", func(t *testing.T) {
		conf, err := Parse(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, 5000, conf.Port)
		assert.Equal(t, "sqlite:///posts.db", conf.DatabaseURL)
		assert.Equal(t, EnvProduction, conf.Env)
		assert.Equal(t, "posts.events", conf.EventsChannel)
		assert.Equal(t, 10*time.Second, conf.ShutdownTimeout)
		assert.Empty(t, conf.Redis.Addr)
		assert.False(t, conf.Development())
	})

	t.Run("Should read overrides", func(t *testing.T) {
		conf, err := Parse(map[string]string{
			"PORT":             "8080",
			"DATABASE_URL":     "mysql://u:p@db:3306/blog",
			"APP_ENV":          "development",
			"REDIS_ADDR":       "localhost:6379",
			"REDIS_DB":         "2",
			"SHUTDOWN_TIMEOUT": "3s",
		})
		require.NoError(t, err)
		assert.Equal(t, 8080, conf.Port)
		assert.Equal(t, "mysql://u:p@db:3306/blog", conf.DatabaseURL)
		assert.True(t, conf.Development())
		assert.Equal(t, "localhost:6379", conf.Redis.Addr)
		assert.Equal(t, 2, conf.Redis.DB)
		assert.Equal(t, 3*time.Second, conf.ShutdownTimeout)
	})

	t.Run("Should reject a non numeric port", func(t *testing.T) {
		_, err := Parse(map[string]string{"PORT": "http"})
		assert.Error(t, err)
	})

	t.Run("Should reject an out of range port", func(t *testing.T) {
		_, err := Parse(map[string]string{"PORT": "70000"})
		assert.Error(t, err)
	})
}

func Test_ParseDatabaseURL(t *testing.T) {
	cases := []struct {
		raw    string
		driver Driver
		dsn    string
	}{
		{"sqlite:///posts.db", DriverSQLite, "posts.db"},
		{"sqlite:////var/lib/posts.db", DriverSQLite, "/var/lib/posts.db"},
		{"sqlite://", DriverSQLite, ":memory:"},
		{"file:posts.db", DriverSQLite, "file:posts.db"},
		{"data/posts.db", DriverSQLite, "data/posts.db"},
		{"mysql://u:p@db:3306/blog", DriverMySQL, "u:p@tcp(db:3306)/blog?clientFoundRows=true&parseTime=true"},
		{"mysql://u@db/blog?charset=utf8mb4", DriverMySQL, "u@tcp(db)/blog?charset=utf8mb4&clientFoundRows=true&parseTime=true"},
		{"mysql://u@db/blog?clientFoundRows=false", DriverMySQL, "u@tcp(db)/blog?clientFoundRows=false&parseTime=true"},
		{"postgres://u:p@db:5432/blog", DriverPostgres, "postgres://u:p@db:5432/blog"},
		{"postgresql://db/blog", DriverPostgres, "postgresql://db/blog"},
	}
	for _, tc := range cases {
		t.Run("Should parse "+tc.raw, func(t *testing.T) {
			driver, dsn, err := ParseDatabaseURL(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.driver, driver)
			assert.Equal(t, tc.dsn, dsn)
		})
	}

	t.Run("Should reject an empty url", func(t *testing.T) {
		_, _, err := ParseDatabaseURL("")
		assert.Error(t, err)
	})

	t.Run("Should reject a mysql url without host", func(t *testing.T) {
		_, _, err := ParseDatabaseURL("mysql:///blog")
		assert.Error(t, err)
	})
}

func Test_InitDB(t *testing.T) {
	t.Run("Should create the posts table and be idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "posts.db")
		conf := &Config{DatabaseURL: "sqlite:///" + path, Env: EnvProduction}

		db, err := InitDB(conf, zap.NewNop())
		require.NoError(t, err)
		assert.True(t, db.Migrator().HasTable("posts"))
		require.NoError(t, CloseDB(db))

		db, err = InitDB(conf, zap.NewNop())
		require.NoError(t, err)
		assert.True(t, db.Migrator().HasTable("posts"))
		require.NoError(t, CloseDB(db))
	})
}

func Test_PostDateColumnType(t *testing.T) {
	s, err := schema.Parse(&post.Post{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	field := s.LookUpField("Date")
	require.NotNil(t, field)

	t.Run("Should keep microseconds on mysql", func(t *testing.T) {
		d := mysql.New(mysql.Config{SkipInitializeWithVersion: true})
		assert.Equal(t, "datetime(6)", d.DataTypeOf(field))
	})

	t.Run("Should keep microseconds on postgres", func(t *testing.T) {
		d := postgres.New(postgres.Config{})
		assert.Equal(t, "timestamptz(6)", d.DataTypeOf(field))
	})
}

func Test_InitLogger(t *testing.T) {
	for _, env := range []string{EnvDevelopment, EnvProduction} {
		t.Run("Should build a logger for "+env, func(t *testing.T) {
			logger, err := InitLogger(&Config{Env: env})
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func Test_InitRedis(t *testing.T) {
	t.Run("Should return no client when no address is set", func(t *testing.T) {
		client, err := InitRedis(context.Background(), RedisConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("Should connect to a reachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := InitRedis(context.Background(), RedisConfig{Addr: mr.Addr()}, zap.NewNop())
		require.NoError(t, err)
		require.NotNil(t, client)
		assert.NoError(t, client.Close())
	})

	t.Run("Should fail when the server is unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		client, err := InitRedis(context.Background(), RedisConfig{Addr: addr}, zap.NewNop())
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}

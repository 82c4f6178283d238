package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{
		{
			name: "native dsn untouched",
			in:   "u:p@tcp(127.0.0.1:3306)/shop?parseTime=true",
			want: "u:p@tcp(127.0.0.1:3306)/shop?parseTime=true",
		},
		{
			name: "url form gets defaults",
			in:   "mysql://u:p@127.0.0.1:3306/shop",
			want: "u:p@tcp(127.0.0.1:3306)/shop?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc with overrides",
			in:   "jdbc:mysql://db:3306/shop?useSSL=false&characterEncoding=utf8",
			user: "root", pass: "secret",
			want: "root:secret@tcp(db:3306)/shop?charset=utf8&parseTime=true&tls=false",
		},
		{
			name: "jdbc prefix keeps url credentials",
			in:   "jdbc:mysql://app:pw@db:3306/shop",
			want: "app:pw@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true",
		},
		{
			name: "credentials from query",
			in:   "mysql://db:3306/shop?user=app&password=pw",
			want: "app:pw@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true",
		},
		{
			name: "useSSL true",
			in:   "mysql://u@db/shop?useSSL=true",
			want: "u@tcp(db)/shop?charset=utf8mb4&parseTime=true&tls=true",
		},
		{
			name: "useSSL skip-verify",
			in:   "mysql://u@db/shop?useSSL=SKIP-VERIFY",
			want: "u@tcp(db)/shop?charset=utf8mb4&parseTime=true&tls=skip-verify",
		},
		{
			name: "explicit tls wins over useSSL",
			in:   "mysql://u@db/shop?useSSL=true&tls=false",
			want: "u@tcp(db)/shop?charset=utf8mb4&parseTime=true&tls=false",
		},
		{
			name: "serverTimezone to loc",
			in:   "jdbc:mysql://u@db/shop?serverTimezone=Asia%2FShanghai&useUnicode=true&zeroDateTimeBehavior=convertToNull",
			want: "u@tcp(db)/shop?charset=utf8mb4&loc=Asia%2FShanghai&parseTime=true",
		},
		{
			name: "explicit charset kept",
			in:   "mysql://u@db/shop?characterEncoding=latin1&charset=utf8&parseTime=false",
			want: "u@tcp(db)/shop?charset=utf8&parseTime=false",
		},
		{
			name: "override replaces url credentials",
			in:   "mysql://a:b@db/shop",
			user: "root", pass: "secret",
			want: "root:secret@tcp(db)/shop?charset=utf8mb4&parseTime=true",
		},
		{
			name: "empty",
			in:   "  ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "u:****@tcp(h:3306)/d", maskDSN("u:secret@tcp(h:3306)/d"))
	assert.Equal(t, "nodsn", maskDSN("nodsn"))
	assert.Equal(t, "u@tcp(h)/d", maskDSN("u@tcp(h)/d"))
	assert.Equal(t, "u:****@tcp(h)/d", maskDSN("u:p@ss@tcp(h)/d"))
}

func TestIsDupKey(t *testing.T) {
	assert.False(t, IsDupKey(nil))
	assert.True(t, IsDupKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDupKey(errors.New("UNIQUE constraint failed: categories.name")))
	assert.True(t, IsDupKey(errors.New(`ERROR: duplicate key value violates unique constraint "idx_categories_name"`)))
	assert.False(t, IsDupKey(errors.New("connection refused")))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestSQLiteMigrate(t *testing.T) {
	db, err := NewGorm(Opts{
		Driver:       "sqlite",
		DSN:          "file::memory:?_pragma=foreign_keys(1)",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "roles", "user_roles", "user_docs", "reviews",
		"categories", "sub_categories", "tags", "stores", "branches", "products", "product_images"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

package sql

import (
	"context"
	stdsql "database/sql"
	"strings"
	"testing"

	"ariga.io/atlas/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/simpleorm/compiler/gen"
	"github.com/syssam/simpleorm/compiler/load"
	simpleschema "github.com/syssam/simpleorm/schema"
)

func columnNames(t *schema.Table) []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

func TestTables(t *testing.T) {
	g := newGraph(t, blog())
	storage, err := gen.NewStorage(gen.Postgres)
	require.NoError(t, err)

	tables, fks, err := Tables(g.Collections[0], storage)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	users, posts := tables[0], tables[1]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, []string{"id", "name", "active", "created_at"}, columnNames(users), "lists of entities have no column")
	assert.Equal(t, "posts", posts.Name)
	assert.Equal(t, []string{"id", "author_id", "tags", "token", "body"}, columnNames(posts))

	require.NotNil(t, users.PrimaryKey)
	assert.Equal(t, "id", users.PrimaryKey.Parts[0].C.Name)

	author, ok := posts.Column("author_id")
	require.True(t, ok)
	assert.True(t, author.Type.Null)
	assert.Equal(t, &schema.IntegerType{T: "bigint"}, author.Type.Type)
	tags, _ := posts.Column("tags")
	assert.True(t, tags.Type.Null)
	assert.Equal(t, &schema.BinaryType{T: "bytea"}, tags.Type.Type)
	name, _ := users.Column("name")
	assert.False(t, name.Type.Null)
	assert.Equal(t, &schema.StringType{T: "text"}, name.Type.Type)

	require.Len(t, fks, 1)
	assert.Equal(t, "posts_author_id_fkey", fks[0].Symbol)
	assert.Equal(t, posts, fks[0].Table)
	assert.Equal(t, users, fks[0].RefTable)
	assert.Equal(t, schema.SetNull, fks[0].OnDelete)
}

func TestTables_Versions(t *testing.T) {
	decls := blog()
	decls.Entities[0].Version = simpleschema.Version{Added: 3, Removed: simpleschema.NoVersion}
	g := newGraph(t, decls)
	storage, err := gen.NewStorage(gen.SQLite)
	require.NoError(t, err)

	tables, fks, err := Tables(g.Collections[0], storage)
	require.NoError(t, err)
	require.Len(t, tables, 1, "users are added after version 2")
	assert.Equal(t, "posts", tables[0].Name)
	assert.Contains(t, columnNames(tables[0]), "author_id")
	assert.Empty(t, fks, "no key references a table missing from the version")
}

func TestTables_Shared(t *testing.T) {
	a := entity("Person", get("GetName", tString))
	a.Table = "people"
	b := entity("Human", get("GetAge", tInt64))
	b.Table = "people"
	decls := &load.Declarations{
		Entities:    []*load.Entity{a, b},
		Collections: []*load.Collection{database("world", "World", 1, "Person", "Human")},
	}
	g := newGraph(t, decls)
	storage, err := gen.NewStorage(gen.SQLite)
	require.NoError(t, err)

	_, _, err = Tables(g.Collections[0], storage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `table "people" is shared`)
}

func renderMigrate(t *testing.T, dialect string) string {
	t.Helper()
	g := newGraph(t, blog(), gen.WithDialect(dialect), gen.WithFeatures(gen.FeatureMigrate))
	d := NewDialect(gen.NewGenerator(g))
	b, err := d.GenMigrate(g.Collections[0])
	require.NoError(t, err)
	return string(b)
}

func TestGenMigrate_SQLite(t *testing.T) {
	ddl := renderMigrate(t, gen.SQLite)
	assert.True(t, strings.HasPrefix(ddl, "-- Code generated by simpleorm, DO NOT EDIT.\n"), ddl)
	assert.Contains(t, ddl, "-- Database \"blog\" version 2, dialect sqlite.\n")
	assert.Contains(t, ddl, "CREATE TABLE `users`")
	assert.Contains(t, ddl, "CREATE TABLE `posts`")
	assert.Contains(t, ddl, "CONSTRAINT `posts_author_id_fkey` FOREIGN KEY")
	assert.NotContains(t, ddl, "ALTER TABLE", "sqlite declares keys inline")
	assert.Less(t, strings.Index(ddl, "CREATE TABLE `users`"), strings.Index(ddl, "CREATE TABLE `posts`"))

	db, err := stdsql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	ctx := context.Background()
	_, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, ddl)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO users (id, name, active, created_at) VALUES (1, 'a8m', true, 0)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO posts (id, author_id, tags, token, body) VALUES (1, 1, NULL, x'00', x'01')")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO posts (id, author_id, tags, token, body) VALUES (2, 42, NULL, x'00', x'01')")
	require.Error(t, err, "author_id references users")

	_, err = db.ExecContext(ctx, "DELETE FROM users WHERE id = 1")
	require.NoError(t, err)
	var author stdsql.NullInt64
	require.NoError(t, db.QueryRowContext(ctx, "SELECT author_id FROM posts WHERE id = 1").Scan(&author))
	assert.False(t, author.Valid, "deleting the author clears the reference")
}

func TestGenMigrate_Postgres(t *testing.T) {
	ddl := renderMigrate(t, gen.Postgres)
	assert.Contains(t, ddl, "-- Database \"blog\" version 2, dialect postgres.\n")
	assert.Contains(t, ddl, `CREATE TABLE "users"`)
	assert.Contains(t, ddl, `"created_at" bigint NOT NULL`)
	assert.Contains(t, ddl, `ALTER TABLE "posts" ADD CONSTRAINT "posts_author_id_fkey" FOREIGN KEY ("author_id") REFERENCES "users" ("id")`)
	assert.Less(t, strings.Index(ddl, `CREATE TABLE "posts"`), strings.Index(ddl, "ALTER TABLE"), "keys are added once all tables exist")
	assert.NotContains(t, ddl, "main.", "statements are not schema qualified")
}

func TestGenMigrate_MySQL(t *testing.T) {
	ddl := renderMigrate(t, gen.MySQL)
	assert.Contains(t, ddl, "CREATE TABLE `users`")
	assert.Contains(t, ddl, "`name` longtext NOT NULL")
	assert.Contains(t, ddl, "ALTER TABLE `posts` ADD CONSTRAINT `posts_author_id_fkey` FOREIGN KEY (`author_id`) REFERENCES `users` (`id`)")
}

func TestGenMigrate_Header(t *testing.T) {
	g := newGraph(t, blog(), gen.WithHeader("// Copyright Blog Inc.\n// Generated."), gen.WithFeatures(gen.FeatureMigrate))
	b, err := NewDialect(gen.NewGenerator(g)).GenMigrate(g.Collections[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "-- Copyright Blog Inc.\n-- Generated.\n-- Database"), string(b))
}

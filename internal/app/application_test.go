package app

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm/schema"

	"blogforge-backend/internal/models"
)

var indexStatementPattern = regexp.MustCompile(
	`^CREATE INDEX IF NOT EXISTS \w+ ON (\w+)\(([^)]+)\)(?: WHERE (.+))?$`,
)

var sqlKeywords = map[string]bool{
	"AND": true, "OR": true, "IS": true, "NOT": true, "NULL": true,
	"true": true, "false": true,
}

func migratedColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()

	entities := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
		&models.View{},
		&models.Bookmark{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Notification{},
		&models.UserSession{},
	}

	cache := &sync.Map{}
	tables := make(map[string]map[string]bool)
	for _, entity := range entities {
		parsed, err := schema.Parse(entity, cache, schema.NamingStrategy{})
		if err != nil {
			t.Fatalf("failed to parse schema for %T: %v", entity, err)
		}
		columns := make(map[string]bool, len(parsed.DBNames))
		for _, name := range parsed.DBNames {
			columns[name] = true
		}
		tables[parsed.Table] = columns
	}
	return tables
}

func statementColumns(table, columnList, where string) []string {
	var out []string
	for _, column := range strings.Split(columnList, ",") {
		column = strings.TrimSpace(column)
		column = strings.TrimSuffix(column, " DESC")
		column = strings.TrimSuffix(column, " ASC")
		out = append(out, column)
	}
	for _, token := range regexp.MustCompile(`[a-zA-Z_]+`).FindAllString(where, -1) {
		if !sqlKeywords[token] {
			out = append(out, token)
		}
	}
	return out
}

func TestIndexStatementsMatchMigratedSchema(t *testing.T) {
	tables := migratedColumns(t)

	for _, stmt := range indexStatements {
		match := indexStatementPattern.FindStringSubmatch(stmt)
		if match == nil {
			t.Fatalf("unparseable index statement: %s", stmt)
		}

		table, columnList, where := match[1], match[2], match[3]
		columns, ok := tables[table]
		if !ok {
			t.Fatalf("index references unmigrated table %q: %s", table, stmt)
		}

		for _, column := range statementColumns(table, columnList, where) {
			if !columns[column] {
				t.Fatalf("index references missing column %s.%s: %s", table, column, stmt)
			}
		}
	}
}

package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const likeEscapeChar = "!"

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// buildContainsCondition 构建大小写不敏感的包含匹配条件，返回条件与参数。
func buildContainsCondition(db *gorm.DB, column, keyword string) (string, interface{}) {
	return buildContainsConditionByDialect(dbDialectName(db), column, keyword)
}

func buildContainsConditionByDialect(dialect, column, keyword string) (string, interface{}) {
	operator := likeOperatorByDialect(dialect)
	pattern := "%" + escapeLike(keyword) + "%"
	if operator == "ILIKE" {
		return fmt.Sprintf("%s ILIKE ? ESCAPE '%s'", column, likeEscapeChar), pattern
	}
	return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%s'", column, likeEscapeChar), strings.ToLower(pattern)
}

// escapeLike 转义 LIKE 通配符，关键字按字面匹配。
func escapeLike(raw string) string {
	replacer := strings.NewReplacer(
		likeEscapeChar, likeEscapeChar+likeEscapeChar,
		"%", likeEscapeChar+"%",
		"_", likeEscapeChar+"_",
	)
	return replacer.Replace(raw)
}

package i18n

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocalePtBR = "pt-BR"
	LocaleEnUS = "en-US"

	// DefaultLocale 默认语言
	DefaultLocale = LocalePtBR
)

var catalogs = map[string]map[string]string{
	LocalePtBR: messagesPtBR,
	LocaleEnUS: messagesEnUS,
}

// ResolveLocale 根据 Accept-Language 解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	return MatchLocale(c.GetHeader("Accept-Language"))
}

var (
	supportedLocales = []string{LocalePtBR, LocaleEnUS}
	localeMatcher    = language.NewMatcher([]language.Tag{
		language.BrazilianPortuguese,
		language.AmericanEnglish,
	})
)

// MatchLocale 按 Accept-Language 的权重选出支持的语言，无匹配时用默认语言
func MatchLocale(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedLocales[idx]
}

// T 翻译消息 key，未命中时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if messages, ok := catalogs[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

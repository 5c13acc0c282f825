package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// supported 的顺序与 languages 一一对应，第一个为匹配失败时的默认值
var (
	supported = []language.Tag{language.English, language.Chinese}
	languages = []Language{LangEnglish, LangChinese}
	matcher   = language.NewMatcher(supported)
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// SetLanguageFromString 从字符串设置语言
//
// 接受 BCP 47 标签（zh-Hans、en-US）以及 POSIX locale（zh_CN.UTF-8），
// 无法识别时回退到英文。
func SetLanguageFromString(lang string) {
	SetLanguage(Match(lang))
}

// Match 把语言描述匹配到受支持的语言
func Match(lang string) Language {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	lang = strings.ReplaceAll(lang, "_", "-")
	if strings.EqualFold(lang, "chinese") {
		return LangChinese
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return LangEnglish
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return LangEnglish
	}
	return languages[index]
}

// Detect 按优先级探测语言: 显式参数 > LUAU_LANG > LC_ALL > LC_MESSAGES > LANG > 英文
func Detect(override string) Language {
	if override != "" {
		return Match(override)
	}
	for _, name := range []string{"LUAU_LANG", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" && v != "C" && v != "POSIX" {
			return Match(v)
		}
	}
	return LangEnglish
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	var messages map[string]string
	switch lang {
	case LangChinese:
		messages = messagesZH
	default:
		messages = messagesEN
	}

	if msg, ok := messages[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 回退到英文
	if msg, ok := messagesEN[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 找不到翻译则返回原始 ID
	return msgID
}
